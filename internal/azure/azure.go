// Package azure holds the pieces shared by both store backends: credential
// acquisition via DefaultAzureCredential and normalization of Azure SDK
// failures into the toolkit's failure vocabulary.
package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// NewCredential builds the default credential chain (environment, workload
// identity, managed identity, Azure CLI). Both services authenticate with
// Entra ID only; account keys are not supported.
func NewCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure: build default credential: %w", err)
	}
	return cred, nil
}

// CheckCredential acquires a token for scope to verify the credential chain
// is usable. Used by the /readyz probe so a misconfigured identity surfaces
// before the first tool call does.
func CheckCredential(ctx context.Context, cred azcore.TokenCredential, scope string) error {
	_, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return fmt.Errorf("azure: acquire token for %s: %w", scope, err)
	}
	return nil
}
