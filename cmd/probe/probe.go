package probe

import (
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newEndpoints(),
		newReceipt(),
	)
}
