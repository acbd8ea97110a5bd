package cmd

import (
	"github.com/Taichi-iskw/rmtrans/cmd/translation"
)

func init() {
	factory := translation.NewServiceFactory(&logLevel)

	rootCmd.AddCommand(translation.NewTranslationCommand(factory))
	// top level shortcut for the most common operation
	rootCmd.AddCommand(translation.NewRemoveCommand(factory, "remove-translation"))
}
