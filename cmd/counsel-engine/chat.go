// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Chat runs an interactive session. Every line is a question; answers
stream in place. Session commands:

  /clear            forget the conversation so far
  /export <file>    write the conversation transcript as YAML
  /law <text>       set the legal-context prompt override for this user
  /tone <text>      set the tone prompt override
  /policy <text>    set the policy prompt override
  /quit             end the session

Prompt override edits are saved a moment after the last edit, so rapid
corrections collapse into one write.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	defer ec.saver.Flush(context.Background())

	fmt.Printf("counsel-engine chat (conversation %s). /quit to exit.\n", conversationID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := ec.sessionCommand(ctx, conversationID, userID, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			if quit {
				return nil
			}
			continue
		}

		stream, err := ec.engine.Ask(ctx, conversationID, userID, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		for frag := range stream.Fragments() {
			fmt.Print(frag)
		}
		fmt.Println()
		<-stream.Done()
	}
}

// sessionCommand handles one /command line. It reports whether the session
// should end.
func (ec *engineContext) sessionCommand(ctx context.Context, conversationID, userID, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/clear":
		ec.engine.Cancel(conversationID)
		if err := ec.store.ClearConversation(ctx, conversationID); err != nil {
			return false, err
		}
		fmt.Println("Conversation cleared.")
		return false, nil

	case "/export":
		if rest == "" {
			return false, fmt.Errorf("usage: /export <file>")
		}
		f, err := os.Create(rest)
		if err != nil {
			return false, err
		}
		defer f.Close()
		if err := ec.store.ExportTranscript(ctx, conversationID, f); err != nil {
			return false, err
		}
		fmt.Println("Transcript written to", rest)
		return false, nil

	case "/law", "/tone", "/policy":
		prompts, err := ec.store.UserPrompts(ctx, userID)
		if err != nil {
			return false, err
		}
		switch cmd {
		case "/law":
			prompts.LawPrompt = rest
		case "/tone":
			prompts.TonePrompt = rest
		case "/policy":
			prompts.PolicyPrompt = rest
		}
		ec.saver.Schedule(userID, prompts)
		fmt.Println("Prompt override updated.")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}
}

func init() {
	chatCmd.Flags().String("conversation", "", "conversation ID to resume (default: a fresh conversation)")
	chatCmd.Flags().String("user", "default", "user whose prompt overrides apply")

	rootCmd.AddCommand(chatCmd)
}
