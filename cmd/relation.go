package cmd

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(relCmd)
	relCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	relCmd.AddCommand(addRelationCmd())
	relCmd.AddCommand(listRelationsCmd())
	relCmd.AddCommand(removeRelationCmd())
}

var relCmd = &cobra.Command{
	Use:   "rel",
	Short: "document relation commands",
}

func addRelationCmd() *cobra.Command {
	var docID string
	var targetID string
	var relationType string

	command := &cobra.Command{
		Use:   "add",
		Short: "link two documents",
		Run: func(cmd *cobra.Command, args []string) {
			relation, err := newClient().CreateRelation(context.Background(), docID, targetID, relationType)
			if err != nil {
				fail(err)
			}

			color.Green("created relation %s", relation.ID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "source document id")
	command.Flags().StringVarP(&targetID, "target-id", "t", "", "target document id")
	command.Flags().StringVarP(&relationType, "type", "r", "EVIDENCE", "relation type (EVIDENCE|REFERENCE|SUPERSEDES)")

	return command
}

func listRelationsCmd() *cobra.Command {
	var docID string
	var direction string
	var relationType string

	command := &cobra.Command{
		Use:   "list",
		Short: "list relations of a document",
		Run: func(cmd *cobra.Command, args []string) {
			relations, err := newClient().ListRelations(context.Background(), docID, direction, relationType)
			if err != nil {
				fail(err)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "From", "To", "Type"})
			for _, rel := range relations {
				table.Append([]string{rel.ID, rel.FromDocumentID, rel.ToDocumentID, rel.Type})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&direction, "direction", "x", "parent", "direction (parent|child|all)")
	command.Flags().StringVarP(&relationType, "type", "r", "", "relation type filter")

	return command
}

func removeRelationCmd() *cobra.Command {
	var docID string
	var relationID string

	command := &cobra.Command{
		Use:   "remove",
		Short: "remove a relation",
		Run: func(cmd *cobra.Command, args []string) {
			if err := newClient().DeleteRelation(context.Background(), docID, relationID); err != nil {
				fail(err)
			}

			color.Green("removed relation %s", relationID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&relationID, "relation-id", "r", "", "relation id")

	return command
}
