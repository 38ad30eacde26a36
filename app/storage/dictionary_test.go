package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

func (s *StorageTestSuite) TestDictionary() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			dict, err := NewDictionary(ctx, db)
			s.Require().NoError(err)

			s.Require().NoError(dict.Add(ctx, "The", "and", " ", "the"))
			entries, err := dict.Read(ctx)
			s.Require().NoError(err)
			s.Require().Len(entries, 2)
			s.Equal("the", entries[0].Word)
			s.Equal("and", entries[1].Word)

			n, err := dict.Import(ctx, strings.NewReader("a, b\nc"), false)
			s.Require().NoError(err)
			s.Equal(3, n)
			entries, err = dict.Read(ctx)
			s.Require().NoError(err)
			s.Len(entries, 5)

			n, err = dict.Import(ctx, strings.NewReader("x,y"), true)
			s.Require().NoError(err)
			s.Equal(2, n)

			r, err := dict.Reader(ctx)
			s.Require().NoError(err)
			data, err := io.ReadAll(r)
			s.Require().NoError(err)
			s.Equal("x\ny\n", string(data))

			entries, err = dict.Read(ctx)
			s.Require().NoError(err)
			s.Require().NoError(dict.Delete(ctx, entries[0].ID))
			s.ErrorIs(dict.Delete(ctx, entries[0].ID), ErrNotFound)
			entries, err = dict.Read(ctx)
			s.Require().NoError(err)
			s.Equal([]DictionaryEntry{{ID: entries[0].ID, Word: "y"}}, entries)

			_, err = NewDictionary(ctx, nil)
			s.Error(err)
		})
	}
}
