package auth

// AccessLevel is the resolver's classification of a principal for one
// establishment. Levels are ordered; every operation a lower level permits is
// permitted by every level above it.
type AccessLevel int

const (
	// LevelMember has no document access.
	LevelMember AccessLevel = iota
	// LevelViewer may read documents and versions.
	LevelViewer
	// LevelAssistant may additionally create and mutate documents and versions.
	LevelAssistant
	// LevelCompanyAdmin is the owning tenant administrator.
	LevelCompanyAdmin
	// LevelGlobal is the platform administrator.
	LevelGlobal
)

func (l AccessLevel) String() string {
	switch l {
	case LevelGlobal:
		return "GLOBAL"
	case LevelCompanyAdmin:
		return "COMPANY_ADMIN"
	case LevelAssistant:
		return "ASSISTANT"
	case LevelViewer:
		return "VIEWER"
	default:
		return "MEMBER"
	}
}

// CanRead reports whether the level grants read access to documents and
// versions of the establishment.
func (l AccessLevel) CanRead() bool {
	return l >= LevelViewer
}

// CanWrite reports whether the level grants mutation access.
func (l AccessLevel) CanWrite() bool {
	return l >= LevelAssistant
}
