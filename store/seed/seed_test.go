package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/warp/cpi-engine/cpi"
	"github.com/warp/cpi-engine/cpi/mocks"
	"github.com/warp/cpi-engine/cpi/store"
	"github.com/warp/cpi-engine/store/seed"
)

const sample = `
indexes:
  - year: 1996
    month: 1
    index: "81.23"
  - year: 1995
    month: 12
    index: "80.00"
  - year: 1989
    month: 12
    index: "0.0004"
`

func TestParse_SortsAndKeepsPrecision(t *testing.T) {
	recs, err := seed.Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, cpi.Period{Year: 1989, Month: time.December}, recs[0].Period)
	assert.Equal(t, "0.0004", recs[0].Index.String())
	assert.Equal(t, cpi.Period{Year: 1996, Month: time.January}, recs[2].Period)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad month", "indexes:\n  - {year: 1995, month: 13, index: \"1\"}\n", "row 1"},
		{"bad index", "indexes:\n  - {year: 1995, month: 1, index: \"abc\"}\n", "invalid index"},
		{"zero index", "indexes:\n  - {year: 1995, month: 1, index: \"0\"}\n", "must be positive"},
		{"not yaml", "indexes: [", "parse seed file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MarshalRoundTrip(t *testing.T) {
	recs, err := seed.Parse([]byte(sample))
	require.NoError(t, err)

	data, err := seed.Marshal(recs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := seed.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(recs))
	for i := range recs {
		assert.Equal(t, recs[i].Period, loaded[i].Period)
		assert.True(t, recs[i].Index.Equal(loaded[i].Index), recs[i].Period.String())
	}
}

func TestImport_Batches(t *testing.T) {
	recs, err := seed.Parse([]byte(sample))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	w := mocks.NewMockIndexWriter(ctrl)
	gomock.InOrder(
		w.EXPECT().PutBatch(gomock.Any(), recs[0:2]).Return(nil),
		w.EXPECT().PutBatch(gomock.Any(), recs[2:3]).Return(nil),
	)

	n, err := seed.Import(context.Background(), w, recs, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImport_StopsOnWriterError(t *testing.T) {
	recs, err := seed.Parse([]byte(sample))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	w := mocks.NewMockIndexWriter(ctrl)
	w.EXPECT().PutBatch(gomock.Any(), gomock.Any()).Return(nil)
	w.EXPECT().PutBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	n, err := seed.Import(context.Background(), w, recs, 1)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "import records 2-2")
}

func TestImport_IntoMemoryStore(t *testing.T) {
	ctx := context.Background()
	recs, err := seed.Parse([]byte(sample))
	require.NoError(t, err)

	mem := store.NewMemory()
	n, err := seed.Import(ctx, mem, recs, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	v, err := mem.Resolve(ctx, cpi.Period{Year: 1995, Month: time.December})
	require.NoError(t, err)
	assert.Equal(t, "80", v.String())
}
