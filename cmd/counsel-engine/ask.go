// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and stream the answer",
	Long: `Ask runs one question through the full pipeline: source ranking, tool
execution, and synthesis. The answer streams to stdout as it is revealed.
Interrupting with Ctrl-C stops the stream; text already shown stays.

With --conversation the question continues an existing conversation and
the exchange is recorded under that ID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ec, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer ec.Close()

	conversationID, _ := cmd.Flags().GetString("conversation")
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	userID, _ := cmd.Flags().GetString("user")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stream, err := ec.engine.Ask(ctx, conversationID, userID, strings.Join(args, " "))
	if err != nil {
		return err
	}

	for frag := range stream.Fragments() {
		fmt.Print(frag)
	}
	fmt.Println()
	<-stream.Done()

	if !stream.Completed() {
		return fmt.Errorf("answer interrupted")
	}
	return nil
}

func init() {
	askCmd.Flags().String("conversation", "", "conversation ID to continue (default: a fresh conversation)")
	askCmd.Flags().String("user", "default", "user whose prompt overrides apply")

	rootCmd.AddCommand(askCmd)
}
