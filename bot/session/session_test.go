package session

import (
	"sync"
	"testing"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/broadcast"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
)

func TestGetDefaultsToATS(t *testing.T) {
	s := NewStore()
	sess := s.Get(1)
	if sess.Game != menu.GameATS {
		t.Fatalf("default game = %v, want %v", sess.Game, menu.GameATS)
	}
	if sess.Current != menu.None || sess.AwaitingQuestion || sess.ActiveQuestion != 0 || sess.Draft != nil {
		t.Fatalf("default session not empty: %+v", sess)
	}
}

func TestUpdateCreatesLazily(t *testing.T) {
	s := NewStore()
	s.Update(7, func(sess *Session) {
		sess.Current = menu.Guides
		sess.Game = menu.GameETS2
	})

	sess := s.Get(7)
	if sess.Current != menu.Guides || sess.Game != menu.GameETS2 {
		t.Fatalf("session after update = %+v", sess)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.Update(1, func(sess *Session) {
		sess.Draft = &broadcast.Draft{Text: "hello"}
	})

	snap := s.Get(1)
	snap.Draft = nil
	snap.Current = menu.Admin

	sess := s.Get(1)
	if sess.Draft == nil || sess.Current != menu.None {
		t.Fatal("mutating a snapshot must not affect the store")
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Update(2, func(sess *Session) {
		sess.ActiveQuestion = 5
	})
	s.Clear(2)

	if sess := s.Get(2); sess.ActiveQuestion != 0 {
		t.Fatalf("session survived clear: %+v", sess)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Update(id%4, func(sess *Session) {
				sess.ActiveQuestion++
			})
			_ = s.Get(id % 4)
		}(int64(i))
	}
	wg.Wait()

	var total int64
	for id := int64(0); id < 4; id++ {
		total += s.Get(id).ActiveQuestion
	}
	if total != 32 {
		t.Fatalf("lost updates: total = %d, want 32", total)
	}
}
