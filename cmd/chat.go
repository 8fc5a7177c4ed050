package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/pkg/logging"
)

const chatDateLayout = "02/01/2006 15:04"

// chatPollInterval is how often the chat is refreshed while waiting for
// input.
var chatPollInterval = 20 * time.Second

// lineReader reads chat messages. *readline.Instance implements it.
type lineReader interface {
	Readline() (string, error)
	Stdout() io.Writer
	Close() error
}

var newLineReader = func(cmd *cobra.Command) (lineReader, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
		InterruptPrompt: "^C",
	})
}

func newProjectsChatCmd(opts *rootOptions) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "chat [id]",
		Short: "Chat with your project group",
		Long: `Chat with your project group.

The conversation is printed, then every line you type is sent to the
group. New messages are fetched every 20 seconds. Press Ctrl-D or Ctrl-C
to leave.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSession(opts, func(s *session, args []string) error {
			project, err := s.project(args, year)
			if err != nil {
				return err
			}

			profile, err := s.profile()
			if err != nil {
				return err
			}
			group := project.UserGroup(profile.UID)
			if group == nil {
				fmt.Fprintln(s.cmd.OutOrStdout(), "You are not actually in a group.")
				return nil
			}

			rl, err := newLineReader(s.cmd)
			if err != nil {
				return fmt.Errorf("failed to create readline instance: %w", err)
			}
			defer rl.Close()

			c := &chat{
				client:  s.client,
				groupID: group.ProjectGroupID,
				uid:     profile.UID,
				out:     rl.Stdout(),
			}
			return s.check(c.run(s.cmd.Context(), rl, chatPollInterval))
		}),
	}

	registerYearFlag(cmd, &year)
	return cmd
}

type chat struct {
	client  *api.Client
	groupID int64
	uid     int64
	out     io.Writer

	mu    sync.Mutex
	known int
}

// run prints the conversation, then sends every line read from rl until
// it is closed. The chat is refreshed every interval meanwhile.
func (c *chat) run(ctx context.Context, rl lineReader, interval time.Duration) error {
	if err := c.refresh(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.poll(ctx, interval)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := c.client.SendProjectGroupMessage(ctx, c.groupID, line); err != nil {
			return err
		}
		if err := c.refresh(ctx); err != nil {
			return err
		}
	}
}

func (c *chat) poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.refresh(ctx); err != nil && ctx.Err() == nil {
				logging.Warn("Chat", "Failed to refresh messages: %v", err)
			}
		}
	}
}

// refresh prints the messages not printed yet.
func (c *chat) refresh(ctx context.Context) error {
	messages, err := c.client.ProjectGroupMessages(ctx, c.groupID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(messages) < c.known {
		c.known = 0
	}
	for _, m := range messages[c.known:] {
		fmt.Fprintln(c.out, formatMessage(m, c.uid))
	}
	c.known = len(messages)
	return nil
}

// formatMessage prints m as "[date] author: text", the author being "You"
// for the user uid.
func formatMessage(m api.Message, uid int64) string {
	author := strings.TrimSpace(m.Firstname + " " + m.Name)
	if m.UID == uid {
		author = "You"
	}
	return fmt.Sprintf("[%s] %s: %s", m.Date.Time().In(location).Format(chatDateLayout), author, m.Message)
}
