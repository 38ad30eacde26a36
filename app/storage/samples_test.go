package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

func docsOf(texts map[string]string) iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for source, text := range texts {
			if !yield(source, strings.NewReader(text)) {
				return
			}
		}
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("broken reader") }

func (s *StorageTestSuite) TestNewSamples() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(context.Background(), db)
			s.NoError(err)
			s.NotNil(samples)

			samples, err = NewSamples(context.Background(), nil)
			s.Error(err)
			s.Nil(samples)
		})
	}
}

func (s *StorageTestSuite) TestSamples_AddReadDelete() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)

			s.Require().NoError(samples.Add(ctx, SampleTypeSpam, SampleOriginPreset, "a.txt", "buy now"))
			s.Require().NoError(samples.Add(ctx, SampleTypeSpam, SampleOriginUser, "api", "cheap pills"))
			s.Require().NoError(samples.Add(ctx, SampleTypeHam, SampleOriginUser, "api", "lunch at noon"))
			// same message replaces the previous one
			s.Require().NoError(samples.Add(ctx, SampleTypeHam, SampleOriginUser, "api", "buy now"))

			spam, err := samples.Read(ctx, SampleTypeSpam, SampleOriginAny)
			s.Require().NoError(err)
			s.Equal([]string{"cheap pills"}, spam)

			ham, err := samples.Read(ctx, SampleTypeHam, SampleOriginUser)
			s.Require().NoError(err)
			s.ElementsMatch([]string{"lunch at noon", "buy now"}, ham)

			preset, err := samples.Read(ctx, SampleTypeSpam, SampleOriginPreset)
			s.Require().NoError(err)
			s.Empty(preset)

			stats, err := samples.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(SamplesStats{TotalSpam: 1, TotalHam: 2, UserSpam: 1, UserHam: 2}, *stats)
			s.Equal("spam: 1, ham: 2, preset spam: 0, preset ham: 0, user spam: 1, user ham: 2", stats.String())

			list, err := samples.List(ctx, SampleTypeHam, SampleOriginAny, 10)
			s.Require().NoError(err)
			s.Require().Len(list, 2)
			s.Greater(list[0].ID, list[1].ID, "newest first")
			for _, e := range list {
				s.Contains([]string{"lunch at noon", "buy now"}, e.Message)
				s.Equal(SampleTypeHam, e.Type)
				s.Equal(SampleOriginUser, e.Origin)
				s.Equal("api", e.Source)
			}

			list, err = samples.List(ctx, SampleTypeHam, SampleOriginUser, 1)
			s.Require().NoError(err)
			s.Len(list, 1)

			list, err = samples.List(ctx, SampleTypeSpam, SampleOriginPreset, 10)
			s.Require().NoError(err)
			s.Empty(list)

			_, err = samples.List(ctx, "bad", SampleOriginAny, 10)
			s.Error(err)

			list, err = samples.List(ctx, SampleTypeSpam, SampleOriginUser, 10)
			s.Require().NoError(err)
			s.Require().Len(list, 1)
			id := list[0].ID
			s.Require().NoError(samples.Delete(ctx, id))
			s.ErrorIs(samples.Delete(ctx, id), ErrNotFound)

			spam, err = samples.Read(ctx, SampleTypeSpam, SampleOriginAny)
			s.Require().NoError(err)
			s.Empty(spam)
		})
	}
}

func (s *StorageTestSuite) TestSamples_Validation() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)

			s.ErrorContains(samples.Add(ctx, "bad", SampleOriginUser, "", "msg"), "invalid sample type")
			s.ErrorContains(samples.Add(ctx, SampleTypeHam, "bad", "", "msg"), "invalid sample origin")
			s.ErrorContains(samples.Add(ctx, SampleTypeHam, SampleOriginAny, "", "msg"), "origin 'any'")
			s.ErrorContains(samples.Add(ctx, SampleTypeHam, SampleOriginUser, "", "  "), "message can't be empty")

			_, err = samples.Read(ctx, "bad", SampleOriginAny)
			s.Error(err)
			_, err = samples.Import(ctx, SampleTypeSpam, SampleOriginAny, docsOf(nil), false)
			s.ErrorContains(err, "origin 'any'")
		})
	}
}

func (s *StorageTestSuite) TestSamples_Import() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			s.Require().NoError(samples.Add(ctx, SampleTypeSpam, SampleOriginUser, "api", "user spam"))

			stats, err := samples.Import(ctx, SampleTypeSpam, SampleOriginPreset, docsOf(map[string]string{
				"1.txt": "first spam\nwith two lines",
				"2.txt": "second spam",
				"3.txt": "   \n",
			}), false)
			s.Require().NoError(err)
			s.Equal(2, stats.PresetSpam, "blank document skipped")
			s.Equal(3, stats.TotalSpam)

			spam, err := samples.Read(ctx, SampleTypeSpam, SampleOriginPreset)
			s.Require().NoError(err)
			s.ElementsMatch([]string{"first spam\nwith two lines", "second spam"}, spam)

			// cleanup keeps user samples
			stats, err = samples.Import(ctx, SampleTypeSpam, SampleOriginPreset,
				docsOf(map[string]string{"4.txt": "replacement"}), true)
			s.Require().NoError(err)
			s.Equal(1, stats.PresetSpam)
			s.Equal(1, stats.UserSpam)

			failing := func(yield func(string, io.Reader) bool) {
				if !yield("ok.txt", strings.NewReader("fine")) {
					return
				}
				yield("bad.txt", errReader{})
			}
			_, err = samples.Import(ctx, SampleTypeSpam, SampleOriginPreset, failing, true)
			s.ErrorContains(err, "bad.txt")

			// failed import is rolled back
			spam, err = samples.Read(ctx, SampleTypeSpam, SampleOriginPreset)
			s.Require().NoError(err)
			s.Equal([]string{"replacement"}, spam)
		})
	}
}

func (s *StorageTestSuite) TestSampleType_Validate() {
	s.NoError(SampleTypeHam.Validate())
	s.NoError(SampleTypeSpam.Validate())
	s.Error(SampleType("other").Validate())
	s.Equal("spam", SampleTypeSpam.String())
	s.NoError(SampleOriginAny.Validate())
	s.Error(SampleOrigin("other").Validate())
	s.Equal("user", SampleOriginUser.String())
}
