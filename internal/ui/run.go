package ui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/jsonview/pkg/logger"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

// Run starts the viewer on inst and blocks until the user quits or ctx
// is done. Extra ProgramOptions (custom IO, window size) are passed to
// tea.NewProgram.
func Run(ctx context.Context, inst *viewer.Instance, opts Options, progOpts ...tea.ProgramOption) error {
	if opts.Logger.GetSink() == nil {
		opts.Logger = *logger.FromContext(ctx)
	}
	m := New(inst, opts)
	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	opts.Logger.V(1).Info("viewer closed", "pending", inst.Pending())
	return nil
}
