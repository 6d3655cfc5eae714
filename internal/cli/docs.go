package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/persistence/middleware"
	"github.com/aretw0/flowcanvas/pkg/ports"
)

// ListDocuments prints one line per stored workflow.
func ListDocuments(ctx context.Context, stack *Stack, w io.Writer) error {
	keys, err := stack.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tNODES\tCONNECTIONS")
	for _, key := range keys {
		doc, err := stack.LoadDocument(ctx, key)
		if err != nil {
			stack.Logger.Warn("Skipping unreadable workflow", "key", key, "err", err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", key, doc.Name, len(doc.Nodes), len(doc.Connections))
	}
	return tw.Flush()
}

// ShowDocument prints one stored workflow in the requested format.
func ShowDocument(ctx context.Context, stack *Stack, key, format string, render func(string) (string, error), w io.Writer) error {
	doc, err := stack.LoadDocument(ctx, key)
	if err != nil {
		return err
	}
	return WriteDocument(w, key, doc, format, render)
}

// RemoveDocument deletes a stored workflow. Backends without delete support report
// middleware.ErrDeleteUnsupported.
func RemoveDocument(ctx context.Context, stack *Stack, key string) error {
	d, ok := stack.Store.(ports.DocumentDeleter)
	if !ok {
		return middleware.ErrDeleteUnsupported
	}
	if err := d.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	stack.Logger.Info("Workflow deleted", "key", key)
	return nil
}

// DiffDocuments prints the changes that turn the workflow at oldKey into the one at newKey.
func DiffDocuments(ctx context.Context, stack *Stack, oldKey, newKey string, w io.Writer) error {
	oldDoc, err := stack.LoadDocument(ctx, oldKey)
	if err != nil {
		return err
	}
	newDoc, err := stack.LoadDocument(ctx, newKey)
	if err != nil {
		return err
	}

	diff := domain.Diff(&oldDoc, &newDoc)
	if diff == nil {
		printSystemMessage(w, "No changes")
		return nil
	}

	data, err := json.MarshalIndent(diff, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode diff: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
