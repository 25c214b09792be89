package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/askbook/internal/domain/qa"
	apperrors "github.com/yanqian/askbook/pkg/errors"
)

// Session is the line based question/answer loop driven by one operator.
type Session struct {
	svc     qa.Service
	in      *bufio.Scanner
	printer *Printer
	logger  *slog.Logger
}

// NewSession wires the loop to its input and output streams.
func NewSession(svc qa.Service, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		svc:     svc,
		in:      bufio.NewScanner(in),
		printer: NewPrinter(out),
		logger:  logger.With("component", "cli.session", "session", uuid.NewString()),
	}
}

// Run loops until the operator quits or input ends. A storage failure ends the
// session with that error.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started", "pairs", s.svc.Len())
	s.printer.Info("Ask me anything. Type 'quit' to leave.")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		question, ok := s.readLine("Question:")
		if !ok {
			return s.in.Err()
		}
		if question == "" {
			continue
		}
		if isQuit(question) {
			s.printer.Info("Bye.")
			return nil
		}

		res, err := s.svc.Lookup(ctx, question)
		if err != nil {
			return err
		}
		s.printer.Lookup(res)

		learn := false
		switch res.Kind {
		case qa.LookupExact:
		case qa.LookupSuggestions:
			reply, ok := s.readLine("Did that answer your question? [Y/n]")
			if !ok {
				return s.in.Err()
			}
			learn = isNo(reply)
		default:
			s.printer.Info("I don't know that one yet.")
			learn = true
		}
		if !learn {
			continue
		}
		if err := s.learn(ctx, question); err != nil {
			return err
		}
	}
}

// learn asks for an answer until a valid one is stored or input ends.
func (s *Session) learn(ctx context.Context, question string) error {
	for {
		answer, ok := s.readLine("What is the answer?")
		if !ok {
			return s.in.Err()
		}
		pair, err := s.svc.Record(ctx, question, answer)
		switch {
		case err == nil:
			s.printer.Recorded(pair)
			return nil
		case apperrors.IsCode(err, qa.CodeInvalidInput):
			s.printer.Warn("The answer cannot be empty.")
		case apperrors.IsCode(err, qa.CodeDuplicateQuestion):
			s.printer.Warn(err.Error())
			return nil
		default:
			s.printer.Warn("Could not save the answer: " + err.Error())
			return err
		}
	}
}

func (s *Session) readLine(label string) (string, bool) {
	s.printer.Prompt(label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", ":q":
		return true
	}
	return false
}

func isNo(input string) bool {
	switch strings.ToLower(input) {
	case "n", "no":
		return true
	}
	return false
}
