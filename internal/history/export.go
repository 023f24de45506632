// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

// Transcript is the exported form of one conversation.
type Transcript struct {
	ConversationID string       `yaml:"conversation_id"`
	ExportedAt     time.Time    `yaml:"exported_at"`
	Turns          []types.Turn `yaml:"turns"`
}

// ExportTranscript writes the full conversation as YAML. Exporting an
// empty conversation is an error so callers do not quietly write empty
// transcript files.
func (s *Store) ExportTranscript(ctx context.Context, conversationID string, w io.Writer) error {
	turns, err := s.Messages(ctx, conversationID)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		return fmt.Errorf("conversation %s has no turns", conversationID)
	}

	transcript := Transcript{
		ConversationID: conversationID,
		ExportedAt:     time.Now().UTC(),
		Turns:          turns,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&transcript); err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}
	return enc.Close()
}
