package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type dispatcherTestCommand struct {
	ID string
}

func (dispatcherTestCommand) Type() string { return "jsweb.test.dispatcher" }

func (dispatcherTestCommand) Validate() error { return nil }

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	var attempts int
	handler := NewHandler(func(ctx context.Context, _ dispatcherTestCommand) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient failure")
		}
		return nil
	}, WithTimeout[dispatcherTestCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), dispatcherTestCommand{ID: "abc"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRegistryDispatchesMigrationCommands(t *testing.T) {
	migrations := &recordingRunner{}
	reg := RegisterCommands(nil, migrations, nil)
	t.Cleanup(reg.Close)

	if err := Dispatch(context.Background(), ApplyMigrationsCommand{}); err != nil {
		t.Fatalf("dispatch apply: %v", err)
	}
	if !migrations.migrated {
		t.Fatal("expected migrate to run through the dispatcher")
	}
}

type recordingRunner struct {
	migrated bool
}

func (r *recordingRunner) Create(ctx context.Context, name string) ([]string, error) {
	return nil, nil
}

func (r *recordingRunner) Migrate(ctx context.Context) ([]string, error) {
	r.migrated = true
	return nil, nil
}

func (r *recordingRunner) Rollback(ctx context.Context) ([]string, error) {
	return nil, nil
}
