package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/zombiz/blitz/internal/datastore"
	"github.com/zombiz/blitz/internal/model"
)

func (c *SessionsCmd) Run() error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := datastore.NewService(store)
	sessions, err := svc.Sessions(ctx)
	if err != nil {
		return err
	}

	if sessions.Len() == 0 {
		fmt.Println("No sessions recorded")
		return nil
	}

	for _, rec := range sessions.Records() {
		sess := model.SessionFromRecord(rec)
		fmt.Println(formatSession(sess))
	}
	return nil
}

func formatSession(sess model.Session) string {
	started := time.UnixMilli(sess.TimeStarted).UTC().Format("2006-01-02 15:04:05")
	state := "partial"
	if sess.Available {
		state = "available"
	}
	return fmt.Sprintf("#%d  %s  %d readings  %s", sess.Id, started, sess.NumberOfReadings, state)
}
