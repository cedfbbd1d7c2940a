// Package prompt builds the generation payload for a resolved request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/coto-cli/coto/pkg/types"
)

// BaseInstruction declares the assistant's role and the only accepted output shape.
const BaseInstruction = `You are coto, an assistant that writes Python code using the AWS SDK for Python (boto3). ` +
	`Respond with a single JSON object of the form {"code": "<python>"} and nothing else. ` +
	`The object must have exactly one key, "code", whose value is a string containing a complete, runnable Python snippet. ` +
	`Do not include prose, explanations, markdown fences, or any other keys.`

// Hint templates appended to BaseInstruction, in this order, when the value is present.
const (
	ProfileHint = `Create the boto3 session with the AWS CLI profile named %q.`
	RegionHint  = `Use the AWS region %q.`
)

// SystemInstruction returns the system message for the given profile and region.
// Empty values add no hint.
func SystemInstruction(profile, region string) string {
	parts := []string{BaseInstruction}
	if profile != "" {
		parts = append(parts, fmt.Sprintf(ProfileHint, profile))
	}
	if region != "" {
		parts = append(parts, fmt.Sprintf(RegionHint, region))
	}
	return strings.Join(parts, " ")
}

// Build assembles the payload: one system message followed by one user
// message carrying the prompt verbatim. The same params always produce the
// same payload.
func Build(p types.Params) *types.Payload {
	return &types.Payload{
		Model: p.Model,
		Input: []types.Message{
			{Role: types.RoleSystem, Content: SystemInstruction(p.Profile, p.Region)},
			{Role: types.RoleUser, Content: p.Prompt},
		},
	}
}
