package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// authMethods are the canonical --auth values.
var authMethods = []string{"standard", "aws-iam", "google-iam", "azure"}

func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(sslModes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeAuthMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(authMethods, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTaxiTypes provides shell completion for --taxi.
func completeTaxiTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(taxiload.TaxiTypes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func matchPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}
