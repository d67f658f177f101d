package auth

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Capability is a closed permission tag granted to a principal by the
// identity service. Unknown tags coming off the wire are dropped at parse
// time instead of silently matching nothing downstream.
type Capability string

const (
	CapabilityGlobalAdmin Capability = "global.admin"
	CapabilityTenantAdmin Capability = "tenant.admin"

	CapabilityDocumentCreate Capability = "document.create"
	CapabilityDocumentUpdate Capability = "document.update"
	CapabilityDocumentDelete Capability = "document.delete"
	CapabilityDocumentRead   Capability = "document.read"

	CapabilityVersionCreate   Capability = "document.version.create"
	CapabilityVersionActivate Capability = "document.version.activate"
	CapabilityVersionArchive  Capability = "document.version.archive"
	CapabilityVersionRead     Capability = "document.version.read"
)

var knownCapabilities = map[Capability]struct{}{
	CapabilityGlobalAdmin:     {},
	CapabilityTenantAdmin:     {},
	CapabilityDocumentCreate:  {},
	CapabilityDocumentUpdate:  {},
	CapabilityDocumentDelete:  {},
	CapabilityDocumentRead:    {},
	CapabilityVersionCreate:   {},
	CapabilityVersionActivate: {},
	CapabilityVersionArchive:  {},
	CapabilityVersionRead:     {},
}

// mutationCapabilities are the document-mutation tags; holding any of them
// classifies a principal as ASSISTANT.
var mutationCapabilities = []Capability{
	CapabilityDocumentCreate,
	CapabilityDocumentUpdate,
	CapabilityDocumentDelete,
	CapabilityVersionCreate,
	CapabilityVersionActivate,
	CapabilityVersionArchive,
}

// readCapabilities are the document-read tags; holding any of them classifies
// a principal as VIEWER.
var readCapabilities = []Capability{
	CapabilityDocumentRead,
	CapabilityVersionRead,
}

// CapabilitySet is the normalized set of permission tags held by a principal.
type CapabilitySet = mapset.Set[Capability]

// NewCapabilitySet builds a set from typed capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	return mapset.NewSet[Capability](caps...)
}

// ParseCapability validates a raw tag against the closed enum.
func ParseCapability(raw string) (Capability, bool) {
	c := Capability(raw)
	_, ok := knownCapabilities[c]
	return c, ok
}

// ParseCapabilitySet normalizes raw tags into a set, dropping unknown ones.
func ParseCapabilitySet(raw []string) CapabilitySet {
	set := mapset.NewSet[Capability]()
	for _, tag := range raw {
		if c, ok := ParseCapability(tag); ok {
			set.Add(c)
		}
	}
	return set
}

// ContainsAny reports whether the set holds at least one of the given tags.
func ContainsAny(set CapabilitySet, caps []Capability) bool {
	for _, c := range caps {
		if set.Contains(c) {
			return true
		}
	}
	return false
}
