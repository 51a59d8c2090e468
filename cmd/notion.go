package main

import (
	"os/signal"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/batch"
	"github.com/sells-group/role-scout/internal/model"
	"github.com/sells-group/role-scout/pkg/notion"
)

// notionRPS stays under Notion's documented average of three requests per second.
const notionRPS = 3

var (
	notionLimit int
	enqueueIn   string
)

func newNotionClient() (notion.Client, error) {
	if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
		return nil, eris.New("notion token and database_id are required")
	}
	return notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(notionRPS)), nil
}

var notionBatchCmd = &cobra.Command{
	Use:   "notion-batch",
	Short: "Resolve queued lookups in the Notion database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		nc, err := newNotionClient()
		if err != nil {
			return err
		}

		queued, err := notion.QueryQueued(ctx, nc, cfg.Notion.DatabaseID)
		if err != nil {
			return eris.Wrap(err, "notion-batch: query queue")
		}
		if notionLimit > 0 && len(queued) > notionLimit {
			queued = queued[:notionLimit]
		}
		if len(queued) == 0 {
			zap.L().Info("no queued lookups")
			return nil
		}

		env, err := initLookup(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		reqs := make([]model.LookupRequest, len(queued))
		for i, q := range queued {
			reqs[i] = q.Request
		}

		var (
			mu        sync.Mutex
			writeErrs int
		)
		sum, err := batch.NewRunner(env.Orchestrator, batchOptions()).Run(ctx, reqs, func(i int, res model.LookupResult) {
			if werr := notion.WriteResult(ctx, nc, queued[i].PageID, res); werr != nil {
				zap.L().Error("notion-batch: write result",
					zap.String("page_id", queued[i].PageID),
					zap.Error(werr),
				)
				mu.Lock()
				writeErrs++
				mu.Unlock()
			}
		})
		if err != nil {
			return eris.Wrap(err, "notion-batch: run")
		}

		zap.L().Info("notion-batch complete",
			zap.Int("total", sum.Total),
			zap.Int64("resolved", sum.Resolved),
			zap.Int64("failed", sum.Failed),
			zap.Int("write_errors", writeErrs),
		)
		return nil
	},
}

var notionEnqueueCmd = &cobra.Command{
	Use:   "notion-enqueue",
	Short: "Add sheet rows to the Notion queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		nc, err := newNotionClient()
		if err != nil {
			return err
		}

		rows, err := readSheet(enqueueIn)
		if err != nil {
			return err
		}
		var reqs []model.LookupRequest
		for _, r := range rows {
			if r.Lookupable() {
				reqs = append(reqs, r.Request())
			}
		}

		n, err := notion.Enqueue(ctx, nc, cfg.Notion.DatabaseID, reqs)
		if err != nil {
			return eris.Wrapf(err, "notion-enqueue: created %d of %d", n, len(reqs))
		}
		zap.L().Info("enqueued lookups", zap.Int("count", n))
		return nil
	},
}

func init() {
	notionBatchCmd.Flags().IntVar(&notionLimit, "limit", 0, "process at most this many queued pages (0 = all)")
	notionEnqueueCmd.Flags().StringVar(&enqueueIn, "in", "", "input .csv or .xlsx file")
	_ = notionEnqueueCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(notionBatchCmd, notionEnqueueCmd)
}
