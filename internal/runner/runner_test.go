package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"pressmark/internal/engine"
	"pressmark/internal/inbox"
	"pressmark/internal/provider"
	"pressmark/internal/runner"
	"pressmark/internal/testsupport"
)

type stubSearcher struct {
	candidates []provider.Candidate
}

func (s *stubSearcher) LookupByBarcode(ctx context.Context, barcode string) ([]provider.Candidate, error) {
	return s.candidates, nil
}

func (s *stubSearcher) LookupByCatalogNumber(ctx context.Context, catalogNumber, label string) ([]provider.Candidate, error) {
	return s.candidates, nil
}

func (s *stubSearcher) SearchByTitleArtist(ctx context.Context, title, artist string) ([]provider.Candidate, error) {
	return s.candidates, nil
}

func TestTickDrainsEligibleItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item := testsupport.AddBarcodeScan(t, store, "4006381333931")
	eng := engine.New(store, &stubSearcher{candidates: []provider.Candidate{{
		Provider:  "discogs",
		ReleaseID: "1",
		Title:     "Dummy",
		Artist:    "Portishead",
		Format:    "Vinyl, LP",
		Barcode:   "4006381333931",
	}}}, engine.Options{})

	r, err := runner.New(cfg, store, eng, runner.Options{})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	r.Tick(ctx)

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LookupStatus == inbox.LookupPending {
		t.Fatalf("tick did not drain the pending item: %+v", got)
	}
}

func TestTickReclaimsStaleClaims(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item := testsupport.AddBarcodeScan(t, store, "4006381333931")
	if claimed, err := store.ClaimLookup(ctx, item.ID); err != nil || !claimed {
		t.Fatalf("ClaimLookup = %v, %v", claimed, err)
	}

	// A clock far in the future makes the fresh claim look stranded.
	eng := engine.New(store, &stubSearcher{}, engine.Options{})
	r, err := runner.New(cfg, store, eng, runner.Options{
		Now: func() time.Time { return time.Now().Add(24 * time.Hour) },
	})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	r.Tick(ctx)

	got, _ := store.GetByID(ctx, item.ID)
	if got.LookupStatus == inbox.LookupInProgress {
		t.Fatal("stale claim was not reclaimed")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	eng := engine.New(store, &stubSearcher{}, engine.Options{})
	r, err := runner.New(cfg, store, eng, runner.Options{})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	holder := flock.New(cfg.LockPath())
	held, err := holder.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if !held {
		t.Fatal("could not take the instance lock for the test")
	}
	defer holder.Unlock()

	eng := engine.New(store, &stubSearcher{}, engine.Options{})
	r, err := runner.New(cfg, store, eng, runner.Options{})
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}
	if err := r.Run(context.Background()); !errors.Is(err, runner.ErrAlreadyRunning) {
		t.Fatalf("Run = %v, want ErrAlreadyRunning", err)
	}
}
