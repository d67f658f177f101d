package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	compliance "github.com/emrgen/compliance"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	docCmd.AddCommand(createDocCmd())
	docCmd.AddCommand(getDocCmd())
	docCmd.AddCommand(listDocCmd())
	docCmd.AddCommand(updateDocCmd())
	docCmd.AddCommand(deleteDocCmd())
	docCmd.AddCommand(listVersionsCmd())
	docCmd.AddCommand(uploadVersionCmd())
	docCmd.AddCommand(activateVersionCmd())
	docCmd.AddCommand(archiveVersionCmd())
}

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "document commands",
}

func newClient() *compliance.Client {
	cnf := loadContext()
	if cnf.Server == "" {
		cnf.Server = "http://localhost:4030"
	}
	if cnf.PrincipalID == "" {
		color.Red("no principal configured, run: compliance context set -u <principal-id>")
		os.Exit(1)
	}

	return compliance.NewClient(cnf.Server, cnf.PrincipalID)
}

func fail(err error) {
	color.Red("%v", err)
	os.Exit(1)
}

func createDocCmd() *cobra.Command {
	var establishmentID string
	var name string
	var kind string
	var description string

	command := &cobra.Command{
		Use:   "create",
		Short: "create a document",
		Run: func(cmd *cobra.Command, args []string) {
			if establishmentID == "" || name == "" {
				color.Red("establishment-id and name are required")
				os.Exit(1)
			}

			doc, err := newClient().CreateDocument(context.Background(), establishmentID, kind, name, description)
			if err != nil {
				fail(err)
			}

			color.Green("created document %s", doc.ID)
		},
	}

	command.Flags().StringVarP(&establishmentID, "establishment-id", "e", "", "establishment id")
	command.Flags().StringVarP(&name, "name", "n", "", "document name")
	command.Flags().StringVarP(&kind, "kind", "k", "MAIN", "document kind (MAIN|EVIDENCE|OTHER)")
	command.Flags().StringVarP(&description, "description", "m", "", "document description")

	return command
}

func getDocCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:   "get",
		Short: "get a document",
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := newClient().GetDocument(context.Background(), docID)
			if err != nil {
				fail(err)
			}

			printDocuments([]compliance.Document{*doc})
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func listDocCmd() *cobra.Command {
	var establishmentID string

	command := &cobra.Command{
		Use:   "list",
		Short: "list documents of an establishment",
		Run: func(cmd *cobra.Command, args []string) {
			docs, err := newClient().ListDocuments(context.Background(), establishmentID)
			if err != nil {
				fail(err)
			}

			printDocuments(docs)
		},
	}

	command.Flags().StringVarP(&establishmentID, "establishment-id", "e", "", "establishment id")

	return command
}

func updateDocCmd() *cobra.Command {
	var docID string
	var name string
	var description string

	command := &cobra.Command{
		Use:   "update",
		Short: "update document name or description",
		Run: func(cmd *cobra.Command, args []string) {
			var namePtr, descPtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			if cmd.Flags().Changed("description") {
				descPtr = &description
			}
			if namePtr == nil && descPtr == nil {
				color.Red("nothing to update")
				os.Exit(1)
			}

			doc, err := newClient().UpdateDocument(context.Background(), docID, namePtr, descPtr)
			if err != nil {
				fail(err)
			}

			printDocuments([]compliance.Document{*doc})
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&name, "name", "n", "", "new name")
	command.Flags().StringVarP(&description, "description", "m", "", "new description")

	return command
}

func deleteDocCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a document",
		Run: func(cmd *cobra.Command, args []string) {
			if err := newClient().DeleteDocument(context.Background(), docID); err != nil {
				fail(err)
			}

			color.Green("deleted document %s", docID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func listVersionsCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:   "versions",
		Short: "list versions of a document",
		Run: func(cmd *cobra.Command, args []string) {
			versions, err := newClient().ListVersions(context.Background(), docID)
			if err != nil {
				fail(err)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Number", "Status", "File", "Size", "Activated"})
			for _, v := range versions {
				activated := ""
				if v.ActivatedAt != nil {
					activated = v.ActivatedAt.Format("2006-01-02 15:04")
				}
				table.Append([]string{
					v.ID,
					strconv.FormatInt(v.VersionNumber, 10),
					v.Status,
					v.FileName,
					strconv.FormatInt(v.Size, 10),
					activated,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func uploadVersionCmd() *cobra.Command {
	var docID string
	var filePath string
	var changeDescription string

	command := &cobra.Command{
		Use:   "upload",
		Short: "upload a new version",
		Run: func(cmd *cobra.Command, args []string) {
			f, err := os.Open(filePath)
			if err != nil {
				fail(err)
			}
			defer f.Close()

			version, err := newClient().UploadVersion(context.Background(), docID, f.Name(), changeDescription, f)
			if err != nil {
				fail(err)
			}

			color.Green("uploaded version %d (%s), checksum %s", version.VersionNumber, version.ID, version.Checksum)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&filePath, "file", "f", "", "file to upload")
	command.Flags().StringVarP(&changeDescription, "message", "m", "", "change description")

	return command
}

func activateVersionCmd() *cobra.Command {
	var docID string
	var versionID string

	command := &cobra.Command{
		Use:   "activate",
		Short: "publish a version",
		Run: func(cmd *cobra.Command, args []string) {
			version, err := newClient().ActivateVersion(context.Background(), docID, versionID)
			if err != nil {
				fail(err)
			}

			color.Green("version %d is now published", version.VersionNumber)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id")

	return command
}

func archiveVersionCmd() *cobra.Command {
	var docID string
	var versionID string

	command := &cobra.Command{
		Use:   "archive",
		Short: "archive a version",
		Run: func(cmd *cobra.Command, args []string) {
			version, err := newClient().ArchiveVersion(context.Background(), docID, versionID)
			if err != nil {
				fail(err)
			}

			color.Green("version %d archived", version.VersionNumber)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id")

	return command
}

func printDocuments(docs []compliance.Document) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Kind", "Status", "Current Version"})
	for _, doc := range docs {
		current := ""
		if doc.CurrentVersionID != nil {
			current = *doc.CurrentVersionID
		}
		table.Append([]string{doc.ID, doc.Name, doc.Kind, doc.Status, current})
	}
	table.Render()
	fmt.Printf("%d document(s)\n", len(docs))
}
