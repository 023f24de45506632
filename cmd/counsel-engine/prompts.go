// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/counsel-engine/internal/history"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage per-user prompt overrides",
	Long: `Prompts manages the per-user prompt overrides folded into source
ranking and answer synthesis: a legal-context prompt, a tone prompt, and
a policy prompt. Overrides persist across sessions.`,
}

// --- get subcommand ---

var promptsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored prompt overrides for a user",
	RunE:  runPromptsGet,
}

func runPromptsGet(cmd *cobra.Command, args []string) error {
	store, err := promptStore()
	if err != nil {
		return err
	}
	defer store.Close()

	userID, _ := cmd.Flags().GetString("user")
	prompts, err := store.UserPrompts(context.Background(), userID)
	if err != nil {
		return err
	}

	fmt.Printf("law:    %s\n", orUnset(prompts.LawPrompt))
	fmt.Printf("tone:   %s\n", orUnset(prompts.TonePrompt))
	fmt.Printf("policy: %s\n", orUnset(prompts.PolicyPrompt))
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// --- set subcommand ---

var promptsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update prompt overrides for a user",
	Long: `Set updates one or more prompt overrides. Only the flags given change;
an explicitly empty flag value clears that override.`,
	RunE: runPromptsSet,
}

func runPromptsSet(cmd *cobra.Command, args []string) error {
	store, err := promptStore()
	if err != nil {
		return err
	}
	defer store.Close()

	userID, _ := cmd.Flags().GetString("user")
	ctx := context.Background()

	prompts, err := store.UserPrompts(ctx, userID)
	if err != nil {
		return err
	}

	var changed bool
	for flag, field := range map[string]*string{
		"law":    &prompts.LawPrompt,
		"tone":   &prompts.TonePrompt,
		"policy": &prompts.PolicyPrompt,
	} {
		if cmd.Flags().Changed(flag) {
			*field, _ = cmd.Flags().GetString(flag)
			changed = true
		}
	}
	if !changed {
		return fmt.Errorf("nothing to set: use --law, --tone, or --policy")
	}

	if err := store.SaveUserPrompts(ctx, userID, prompts); err != nil {
		return err
	}
	fmt.Println("Prompt overrides saved.")
	return nil
}

// --- shared helpers ---

func promptStore() (*history.Store, error) {
	return history.NewStore(engineConfig().History)
}

func init() {
	promptsCmd.PersistentFlags().String("user", "default", "user whose overrides to read or write")

	promptsSetCmd.Flags().String("law", "", "legal-context prompt override")
	promptsSetCmd.Flags().String("tone", "", "tone prompt override")
	promptsSetCmd.Flags().String("policy", "", "policy prompt override")

	promptsCmd.AddCommand(promptsGetCmd)
	promptsCmd.AddCommand(promptsSetCmd)

	rootCmd.AddCommand(promptsCmd)
}
