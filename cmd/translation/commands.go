package translation

import (
	"github.com/spf13/cobra"
)

// NewTranslationCommand creates the main translation command
func NewTranslationCommand(services ServiceCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translation",
		Short: "Manage content translations",
		Long:  `Inspect content translations and remove a single translation from a content item`,
	}

	cmd.AddCommand(NewRemoveCommand(services, "remove"))
	cmd.AddCommand(NewShowCommand(services))

	return cmd
}
