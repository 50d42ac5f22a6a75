package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/datastore"
	"github.com/zombiz/blitz/internal/fileutil"
	"github.com/zombiz/blitz/internal/model"
	"github.com/zombiz/blitz/internal/transform"
)

// sessionExport is the JSON document one export produces
type sessionExport struct {
	SessionId int64             `json:"sessionId"`
	Source    string            `json:"source"`
	Model     string            `json:"model,omitempty"`
	Units     map[string]string `json:"units,omitempty"`
	Records   []model.Record    `json:"records"`
	Variables []model.Record    `json:"variables,omitempty"`
}

func (c *ExportCmd) Run() error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := datastore.NewService(store)
	readings, err := svc.SessionReadings(ctx, c.Session)
	if err != nil {
		return err
	}
	if readings.Len() == 0 {
		return fmt.Errorf("session %d has no readings", c.Session)
	}

	if c.Chain != "" {
		chain, err := transform.CompileFile(c.Chain)
		if err != nil {
			return err
		}
		readings, err = chain.Apply(readings)
		if err != nil {
			return err
		}
	}

	variables, err := svc.SessionVariables(ctx, c.Session)
	if err != nil {
		return err
	}

	export := exportDocument(c.Session, readings, variables)
	path := fileutil.GetExportFilePath(fmt.Sprintf("session-%d", c.Session), c.Output)

	written, err := fileutil.WriteJSONFile(export, path, c.Overwrite)
	if err != nil {
		return err
	}
	if !written {
		return fmt.Errorf("export file %s already exists, use --overwrite to replace it", path)
	}

	slog.Info("Exported session", "sessionId", c.Session, "readings", readings.Len(), "file", path)
	return nil
}

func exportDocument(sessionId int64, readings *container.Container, variables []model.Category) sessionExport {
	meta := readings.Meta()
	out := sessionExport{
		SessionId: sessionId,
		Source:    meta.Source,
		Model:     meta.Model,
		Units:     meta.Units,
		Records:   readings.Records(),
	}
	for _, v := range variables {
		out.Variables = append(out.Variables, v.ToRecord())
	}
	return out
}
