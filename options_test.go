package memento

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/memento-gifts/memento/domain"
)

func TestWithLogger(t *testing.T) {
	t.Run("sets custom logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		c, err := New(WithStore(failingStore{}), WithLogger(logger))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if c.Logger != logger {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", logger, c.Logger)
		}

		c.AllExperiences(context.Background())
		if !strings.Contains(buf.String(), "loading experiences") {
			t.Fatalf("\nwanted:\nlog output containing 'loading experiences'\ngot:\n%q", buf.String())
		}
	})

	t.Run("handles nil logger safely", func(t *testing.T) {
		c, err := New(WithStore(failingStore{}), WithLogger(nil))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if c.Logger == nil {
			t.Fatalf("\nwanted:\nnon-nil logger\ngot:\nnil")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("\nwanted:\nno panic\ngot:\n%v", r)
			}
		}()

		c.Logger.Info("safe check")
	})
}

func TestWithNotifier(t *testing.T) {
	t.Run("should refuse a second handler", func(t *testing.T) {
		handler := func(domain.Notification) {}
		if _, err := New(WithStore(failingStore{}), WithNotifier(handler), WithNotifier(handler)); err == nil {
			t.Fatal("expected an error for a second notification handler")
		}
	})

	t.Run("should log notifications", func(t *testing.T) {
		var buf bytes.Buffer
		c, err := New(WithStore(failingStore{}), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		NewManager(c).Delete(context.Background(), "id")
		if !strings.Contains(buf.String(), MsgDeleteFailed) {
			t.Fatalf("\nwanted:\nlog output containing %q\ngot:\n%q", MsgDeleteFailed, buf.String())
		}
	})
}

func TestWithStoreAndCategories(t *testing.T) {
	t.Run("should reject a nil store", func(t *testing.T) {
		if _, err := New(WithStore(nil)); err == nil {
			t.Fatal("expected an error for a nil store")
		}
	})

	t.Run("should reject an empty category list", func(t *testing.T) {
		if _, err := New(WithStore(failingStore{}), WithCategories(nil)); err == nil {
			t.Fatal("expected an error for an empty category list")
		}
	})
}
