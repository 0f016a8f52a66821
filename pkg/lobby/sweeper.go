package lobby

import (
	"context"
	"errors"
	"time"

	"github.com/vctt94/holdemtable/pkg/store"
)

// Sweep applies turn timeouts and pending deals to every playing room, so
// tables keep moving when nobody polls, and deletes waiting rooms idle past
// the expiry. It returns how many rooms changed.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	rooms, err := s.db.ListRooms(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, r := range rooms {
		if r.Status == store.StatusWaiting {
			removed, err := s.expire(ctx, r.Code)
			if err != nil {
				return changed, err
			}
			if removed {
				changed++
			}
			continue
		}
		if r.Status != store.StatusPlaying {
			continue
		}
		var touched bool
		_, err := s.update(ctx, r.Code, func(room *store.Room, now time.Time) error {
			ok, err := s.applyTimers(room, now)
			touched = ok
			if err != nil {
				return err
			}
			if !ok {
				return errNoChange
			}
			return nil
		})
		switch {
		case err == nil:
		case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrConflictRetries):
			// Deleted or busy; the next sweep will see it.
			continue
		default:
			return changed, err
		}
		if touched {
			changed++
		}
	}
	return changed, nil
}

// expire deletes the waiting room code if nobody has touched it within the
// idle expiry.
func (s *Service) expire(ctx context.Context, code string) (bool, error) {
	if s.cfg.IdleExpiry <= 0 {
		return false, nil
	}
	// Re-read so a join since the listing keeps the room alive.
	room, err := s.db.GetRoom(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if room.Status != store.StatusWaiting || s.now().Sub(room.UpdatedAt) <= s.cfg.IdleExpiry {
		return false, nil
	}

	err = s.db.DeleteRoom(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	log.Infof("room %s: removed after %v idle", code, s.now().Sub(room.UpdatedAt).Round(time.Second))
	return true, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("sweeper running every %v", interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Errorf("sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Debugf("sweep advanced %d rooms", n)
			}
		}
	}
}
