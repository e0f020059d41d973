package service

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/config"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

type cachedTable struct {
	table     *models.DataTable
	fetchedAt time.Time
}

// TableService answers table info popover requests. Table metadata is
// cached in a bounded LRU for a limited time.
type TableService struct {
	tables   repository.DataTableRepository
	cache    *lru.Cache
	ttl      time.Duration
	defaults popover.Options
	now      func() time.Time
}

// NewTableService creates a new TableService from the popover settings.
func NewTableService(tables repository.DataTableRepository, cfg config.PopoverSettings) (*TableService, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}
	return &TableService{
		tables: tables,
		cache:  cache,
		ttl:    cfg.CacheTTL,
		defaults: popover.Options{
			Placement: cfg.Placement,
			Delay:     popover.Delay{Show: cfg.ShowDelay, Hide: cfg.HideDelay},
		},
		now: time.Now,
	}, nil
}

// Popover decides whether the table identified by rawID gets an overlay.
// Virtual and unknown tables yield Show=false without an error.
func (s *TableService) Popover(ctx context.Context, rawID string, overrides popover.Options) (*models.TablePopover, error) {
	opts := s.defaults
	if overrides.Placement != "" {
		opts.Placement = overrides.Placement
	}
	if overrides.Offset != nil {
		opts.Offset = overrides.Offset
	}

	id := popover.ParseTableID(rawID)
	numericID, ok := id.Int64()
	if !ok {
		return &models.TablePopover{Decision: popover.Decide(popover.TableRef{ID: id}, opts)}, nil
	}

	table, err := s.lookup(ctx, numericID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			log.Debug().Int64("table_id", numericID).Msg("No metadata for table, popover suppressed")
			return &models.TablePopover{Decision: popover.Decide(popover.TableRef{ID: id}, opts)}, nil
		}
		return nil, err
	}

	info := &models.TableInfo{
		ID:          id,
		DisplayName: table.DisplayName,
		Description: table.Description,
		FieldCount:  table.FieldCount,
	}
	return &models.TablePopover{Decision: popover.Decide(info.Ref(), opts), Table: info}, nil
}

// Save stores table metadata and drops any cached copy.
func (s *TableService) Save(ctx context.Context, table *models.DataTable) error {
	if err := s.tables.Save(ctx, table); err != nil {
		return err
	}
	s.cache.Remove(table.ID)
	return nil
}

func (s *TableService) lookup(ctx context.Context, id int64) (*models.DataTable, error) {
	if v, ok := s.cache.Get(id); ok {
		entry := v.(cachedTable)
		if s.now().Sub(entry.fetchedAt) < s.ttl {
			return entry.table, nil
		}
		s.cache.Remove(id)
	}

	table, err := s.tables.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, cachedTable{table: table, fetchedAt: s.now()})
	return table, nil
}
