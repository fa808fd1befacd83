package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Migrate rewrites every stored sheet that is not in normalized form. A
// failure on one record is reported and does not stop the pass.
func (s *service) Migrate(ctx context.Context, input *MigrateInput) (output *MigrateOutput, err error) {
	if input == nil {
		input = &MigrateInput{}
	}
	ctx, span := s.startSpan(ctx, "Migrate", attribute.Bool("dry_run", input.DryRun))
	defer func() { endSpan(span, err) }()

	ids, err := s.repository.ListIDs(ctx)
	if err != nil {
		return nil, sheeterr.Wrap(err, "failed to list characters")
	}

	output = &MigrateOutput{Failed: make(map[string]error)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return output, err
		}
		output.Checked++

		char, err := s.repository.Get(ctx, id)
		if err != nil {
			if sheeterr.IsNotFound(err) {
				// Deleted since listing
				continue
			}
			output.Failed[id] = err
			continue
		}
		if !sheet.NeedsRepair(char.System) {
			continue
		}

		if input.DryRun {
			output.Repaired = append(output.Repaired, id)
			continue
		}

		if err := s.repository.Replace(ctx, id, sheet.Normalize(char.System).Raw()); err != nil {
			log.Printf("[Sheet] Failed to repair %s: %v", id, err)
			output.Failed[id] = err
			continue
		}
		output.Repaired = append(output.Repaired, id)
	}

	span.SetAttributes(
		attribute.Int("migrate.checked", output.Checked),
		attribute.Int("migrate.repaired", len(output.Repaired)),
		attribute.Int("migrate.failed", len(output.Failed)))
	log.Printf("[Sheet] Migration checked %d, repaired %d, failed %d (dry run: %v)",
		output.Checked, len(output.Repaired), len(output.Failed), input.DryRun)
	return output, nil
}
