// Package agent implements the interactive fiscal assistant: a chat session
// primed with the generated fiscal report.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const systemPrompt = `You are a Spanish crypto tax assistant. You answer
questions about the fiscal report below: FIFO cost basis, per-year gains on
the "base del ahorro", and how each column was computed. Answer in the
language of the question. The report:

`

// Assistant is the chat session over a fiscal report.
type Assistant struct {
	w      io.Writer
	r      *bufio.Reader
	Model  string
	report string
	chat   *genai.Chat
}

// New creates an Assistant answering questions about the given markdown
// report, reading the user from r and writing to w.
func New(w io.Writer, r io.Reader, report string) *Assistant {
	return &Assistant{
		w:      w,
		r:      bufio.NewReader(r),
		Model:  defaultModel,
		report: report,
	}
}

// Start creates the chat session with the report as system context.
func (a *Assistant) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt + a.report}},
		},
	}
	chat, err := client.Chats.Create(ctx, a.Model, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends one question and returns the assistant's text answer.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the assistant")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "asesor> "

// Run starts the interactive REPL session. Extra prompts are consumed before
// reading the user, which makes the loop scriptable.
func (a *Assistant) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Fiscal report assistant. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
