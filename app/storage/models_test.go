package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/umputun/spamicity/lib/spamcheck"
	"github.com/umputun/spamicity/lib/spamicity"
)

func (s *StorageTestSuite) TestModels_SaveLoad() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			models, err := NewModels(ctx, db)
			s.Require().NoError(err)

			_, err = models.Load(ctx)
			s.ErrorIs(err, ErrNoModel)
			s.Error(models.Save(ctx, nil))

			info := spamicity.TableInfo{Vocabulary: 10, Pruned: 7, SpamDocs: 3, HamDocs: 4, MinDocs: 5}
			table, err := spamicity.NewTable(map[string]float64{"viagra": 1, "meet": 0, "free": 0.75}, info)
			s.Require().NoError(err)
			s.Require().NoError(models.Save(ctx, table))

			loaded, err := models.Load(ctx)
			s.Require().NoError(err)
			s.Equal(table.Values(), loaded.Values())
			s.Equal(7, loaded.Info().Pruned)
			s.Equal(3, loaded.Info().Terms)

			// save replaces the whole table
			table2, err := spamicity.NewTable(map[string]float64{"other": 0.5}, spamicity.TableInfo{})
			s.Require().NoError(err)
			s.Require().NoError(models.Save(ctx, table2))
			loaded, err = models.Load(ctx)
			s.Require().NoError(err)
			s.Equal(map[string]float64{"other": 0.5}, loaded.Values())
		})
	}
}

func (s *StorageTestSuite) TestChecks() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			checks, err := NewChecks(ctx, db)
			s.Require().NoError(err)

			ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			s.Require().NoError(checks.Write(ctx, spamcheck.Request{Msg: "old", Source: "a", Timestamp: ts},
				spamcheck.Response{Name: "spamicity", Spam: false, Probability: 0.5, Details: "d1"}))
			s.Require().NoError(checks.Write(ctx, spamcheck.Request{Msg: "new", Source: "b", Timestamp: ts.Add(time.Hour)},
				spamcheck.Response{Name: "spamicity", Spam: true, Probability: 0.99, Details: "d2"}))

			entries, err := checks.Read(ctx, 10)
			s.Require().NoError(err)
			s.Require().Len(entries, 2)
			s.Equal("new", entries[0].Text)
			s.True(entries[0].Spam)
			s.InDelta(0.99, entries[0].Probability, 1e-9)
			s.Equal("b", entries[0].Source)
			s.True(ts.Add(time.Hour).Equal(entries[0].Timestamp))
			s.Equal("old", entries[1].Text)
			s.False(entries[1].Spam)

			entries, err = checks.Read(ctx, 1)
			s.Require().NoError(err)
			s.Len(entries, 1)
		})
	}
}
