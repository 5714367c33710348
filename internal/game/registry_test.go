package game

import (
	"fmt"
	"testing"
)

type stubGame struct{ info Info }

func (g stubGame) Info() Info { return g.info }

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	info := Info{ID: "tetris", Name: "Tetris"}
	if err := reg.Register(info, func() (Game, error) {
		return stubGame{info: info}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	g, err := reg.Resolve("tetris")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if g.Info().ID != "tetris" {
		t.Fatalf("resolved wrong game: %s", g.Info().ID)
	}
	if _, err := reg.Resolve("pinball"); err == nil {
		t.Fatalf("expected unknown id error")
	}
}

func TestRegistryRejectsDuplicatesAndBadInfo(t *testing.T) {
	reg := NewRegistry()
	info := Info{ID: "dice", Name: "Dice Duel"}
	factory := func() (Game, error) { return stubGame{info: info}, nil }
	if err := reg.Register(info, factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(info, factory); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := reg.Register(Info{Name: "No ID"}, factory); err == nil {
		t.Fatalf("expected id required error")
	}
	if err := reg.Register(Info{ID: "x"}, nil); err == nil {
		t.Fatalf("expected factory required error")
	}
}

func TestRegistryPropagatesFactoryError(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(Info{ID: "broken", Name: "Broken"}, func() (Game, error) {
		return nil, fmt.Errorf("boom")
	})
	if _, err := reg.Resolve("broken"); err == nil {
		t.Fatalf("expected factory error to propagate")
	}
}

func TestRegistryInfosKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"saboteur", "tetris", "dice"} {
		info := Info{ID: id, Name: id}
		reg.MustRegister(info, func() (Game, error) { return stubGame{info: info}, nil })
	}
	infos := reg.Infos()
	if len(infos) != 3 {
		t.Fatalf("expected 3 infos, got %d", len(infos))
	}
	for i, want := range []string{"saboteur", "tetris", "dice"} {
		if infos[i].ID != want {
			t.Fatalf("infos[%d] = %s, want %s", i, infos[i].ID, want)
		}
	}
	ids := reg.IDs()
	if len(ids) != 3 || ids[0] != "dice" {
		t.Fatalf("IDs should be sorted, got %v", ids)
	}
}
