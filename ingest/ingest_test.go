package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/modcat"
	"github.com/fwojciec/modcat/goquery"
	"github.com/fwojciec/modcat/ingest"
	"github.com/fwojciec/modcat/mock"
	"github.com/fwojciec/modcat/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = "https://example.com/wiki/mod-list/"

const modListHTML = `<html><body>
<nav><h2>Navigation</h2><table><tr><td>Home</td><td>Wiki</td></tr></table></nav>
<article>
<h2>All the Mods 10 Mod List</h2>
<p>Welcome.</p>
<h2>Contents</h2>
<ul><li>Technology Mods</li><li>Magic Mods</li></ul>
<h2>Magic Mods</h2>
<table>
<tr><th>MOD NAME</th><th>SUMMARY</th></tr>
<tr><td>Botania</td><td>Flower   magic</td></tr>
<tr><td>Bar</td><td>Misfiled here</td></tr>
<tr><td>botania</td><td>Duplicate row</td></tr>
<tr><td></td><td>No name</td></tr>
<tr><td>Broken</td><td>null</td></tr>
<tr><td>Lonely</td></tr>
</table>
<h2>Technology Mods</h2>
<table>
<tr><th>Mod Name</th><th>Short Summary Text</th></tr>
<tr><td>Create</td><td>Rotational power</td></tr>
<tr><td>Bar</td><td>Belongs to tech</td></tr>
</table>
<table><tr><th>Rank</th><th>Name</th></tr><tr><td>1</td><td>Create</td></tr></table>
<h2>Empty Mods</h2>
<p>Coming soon.</p>
<h2>Share</h2>
<table><tr><th>Mod Name</th><th>Summary</th></tr><tr><td>Facebook</td><td>Share link</td></tr></table>
</article>
</body></html>`

func ptr(s string) *string { return &s }

func setupStore(t *testing.T) (*sqlite.ModService, *sqlite.RunService) {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return sqlite.NewModService(db), sqlite.NewRunService(db)
}

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func newIngester(fetcher modcat.Fetcher, mods modcat.ModService, runs modcat.RunService) *ingest.Ingester {
	return &ingest.Ingester{
		Fetcher:    fetcher,
		Classifier: goquery.NewClassifier(),
		Mods:       mods,
		Runs:       runs,
	}
}

func TestIngester_Run(t *testing.T) {
	t.Parallel()

	t.Run("extracts deduplicated records per region", func(t *testing.T) {
		t.Parallel()

		mods, runs := setupStore(t)
		ctx := context.Background()

		report, err := newIngester(staticFetcher(modListHTML), mods, runs).Run(ctx, source)
		require.NoError(t, err)

		assert.Equal(t, 3, report.RegionsFound)
		assert.Equal(t, 1, report.RegionsSkipped)
		assert.Equal(t, 4, report.Candidates)
		assert.Equal(t, 4, report.Upserted)
		assert.Equal(t, 0, report.Deleted)
		assert.NotEmpty(t, report.DocumentHash)

		require.Len(t, report.Regions, 3)
		assert.Equal(t, modcat.RegionReport{Name: "Magic Mods", Candidates: 2, Sample: []string{"Botania", "Bar"}}, report.Regions[0])
		assert.Equal(t, modcat.RegionReport{Name: "Technology Mods", Candidates: 2, Sample: []string{"Create", "Bar"}}, report.Regions[1])
		assert.Equal(t, modcat.RegionReport{Name: "Empty Mods", Candidates: 0}, report.Regions[2])

		botania, err := mods.FindModByName(ctx, "Botania")
		require.NoError(t, err)
		assert.Equal(t, "Flower magic", *botania.Summary)
		assert.Equal(t, "Magic Mods", *botania.Category)
		assert.Equal(t, source, botania.SourceURL)

		for _, name := range []string{"Broken", "Lonely", "Facebook", "Navigation"} {
			_, err := mods.FindModByName(ctx, name)
			assert.Equal(t, modcat.ENOTFOUND, modcat.ErrorCode(err), name)
		}
	})

	t.Run("later region wins for names in several regions", func(t *testing.T) {
		t.Parallel()

		mods, _ := setupStore(t)
		ctx := context.Background()

		_, err := newIngester(staticFetcher(modListHTML), mods, nil).Run(ctx, source)
		require.NoError(t, err)

		bar, err := mods.FindModByName(ctx, "Bar")
		require.NoError(t, err)
		assert.Equal(t, "Technology Mods", *bar.Category)
		assert.Equal(t, "Belongs to tech", *bar.Summary)
	})

	t.Run("later region wins for names differing in non-ASCII case", func(t *testing.T) {
		t.Parallel()

		mods, _ := setupStore(t)
		ctx := context.Background()
		html := `<html><body>
<h2>Magic Mods</h2>
<table><tr><th>Mod Name</th><th>Summary</th></tr><tr><td>Ädditions</td><td>Magic flavor</td></tr></table>
<h2>Technology Mods</h2>
<table><tr><th>Mod Name</th><th>Summary</th></tr><tr><td>ädditions</td><td>Tech flavor</td></tr></table>
</body></html>`

		report, err := newIngester(staticFetcher(html), mods, nil).Run(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Upserted)

		stored, err := mods.FindMods(ctx, modcat.ModFilter{})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "ädditions", stored[0].Name)
		assert.Equal(t, "Technology Mods", *stored[0].Category)
		assert.Equal(t, "Tech flavor", *stored[0].Summary)
	})

	t.Run("second run over unchanged document is idempotent", func(t *testing.T) {
		t.Parallel()

		mods, runs := setupStore(t)
		ctx := context.Background()
		ing := newIngester(staticFetcher(modListHTML), mods, runs)

		first, err := ing.Run(ctx, source)
		require.NoError(t, err)
		before, err := mods.FindMods(ctx, modcat.ModFilter{})
		require.NoError(t, err)

		second, err := ing.Run(ctx, source)
		require.NoError(t, err)
		after, err := mods.FindMods(ctx, modcat.ModFilter{})
		require.NoError(t, err)

		assert.Equal(t, first.Upserted, second.Upserted)
		assert.Equal(t, 0, second.Deleted)
		require.Len(t, after, len(before))
		for i := range before {
			assert.Equal(t, before[i].ID, after[i].ID)
			assert.Equal(t, before[i].Name, after[i].Name)
			assert.Equal(t, before[i].Category, after[i].Category)
			assert.Equal(t, before[i].Summary, after[i].Summary)
		}

		recorded, err := runs.FindRuns(ctx, modcat.RunFilter{})
		require.NoError(t, err)
		assert.Len(t, recorded, 2)
		assert.Equal(t, first.DocumentHash, second.DocumentHash)
	})

	t.Run("cleans up incomplete records of the source before import", func(t *testing.T) {
		t.Parallel()

		mods, _ := setupStore(t)
		ctx := context.Background()

		require.NoError(t, mods.UpsertMod(ctx, &modcat.Mod{Name: "Stale", Summary: ptr("half scraped"), SourceURL: source}))
		require.NoError(t, mods.UpsertMod(ctx, &modcat.Mod{Name: "Foreign", SourceURL: "https://example.org/other"}))

		report, err := newIngester(staticFetcher(modListHTML), mods, nil).Run(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Deleted)

		_, err = mods.FindModByName(ctx, "Stale")
		assert.Equal(t, modcat.ENOTFOUND, modcat.ErrorCode(err))

		_, err = mods.FindModByName(ctx, "Foreign")
		require.NoError(t, err, "other sources are untouched")

		n, err := mods.CountMods(ctx, modcat.ModFilter{SourceURL: ptr(source)})
		require.NoError(t, err)
		assert.Equal(t, report.Upserted-1, n, "Bar is upserted twice")
	})

	t.Run("fetch failure aborts without cleanup", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", &modcat.FetchError{URL: url, StatusCode: 503}
			},
		}
		mods := &mock.ModService{}
		runs := &mock.RunService{}

		_, err := newIngester(fetcher, mods, runs).Run(context.Background(), source)

		require.Error(t, err)
		assert.Equal(t, modcat.EFETCH, modcat.ErrorCode(err))
	})

	t.Run("document without headings is a zero-result run", func(t *testing.T) {
		t.Parallel()

		var recorded *modcat.Run
		runs := &mock.RunService{
			CreateRunFn: func(ctx context.Context, run *modcat.Run) error {
				recorded = run
				return nil
			},
		}

		report, err := newIngester(staticFetcher(`<html><body><p>Nothing here</p></body></html>`), &mock.ModService{}, runs).
			Run(context.Background(), source)

		require.NoError(t, err)
		assert.Equal(t, 0, report.RegionsFound)
		assert.Equal(t, 0, report.Upserted)
		assert.Equal(t, 0, report.Deleted)
		require.NotNil(t, recorded)
		assert.Equal(t, source, recorded.SourceURL)
	})

	t.Run("strict mode makes missing record tables fatal", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h2>Technology Mods</h2><table><tr><th>Rank</th><th>Name</th></tr></table></body></html>`
		ing := newIngester(staticFetcher(html), &mock.ModService{}, nil)
		ing.Strict = true

		_, err := ing.Run(context.Background(), source)

		require.Error(t, err)
		assert.Equal(t, modcat.ESTRUCTURE, modcat.ErrorCode(err))
	})

	t.Run("store failure aborts the batch", func(t *testing.T) {
		t.Parallel()

		upserts := 0
		mods := &mock.ModService{
			DeleteModsFn: func(ctx context.Context, filter modcat.ModDelete) (int, error) {
				assert.Equal(t, modcat.ModDelete{SourceURL: source, Incomplete: true}, filter)
				return 0, nil
			},
			UpsertModFn: func(ctx context.Context, mod *modcat.Mod) error {
				upserts++
				if upserts == 2 {
					return modcat.StoreError("upsert mod", errors.New("disk full"))
				}
				return nil
			},
		}
		runs := &mock.RunService{}

		_, err := newIngester(staticFetcher(modListHTML), mods, runs).Run(context.Background(), source)

		require.Error(t, err)
		assert.Equal(t, modcat.ESTORE, modcat.ErrorCode(err))
		assert.Equal(t, `upsert "Bar": upsert mod: disk full`, modcat.ErrorMessage(err))
		assert.Equal(t, 2, upserts)
	})

	t.Run("cleanup failure aborts before upserts", func(t *testing.T) {
		t.Parallel()

		mods := &mock.ModService{
			DeleteModsFn: func(ctx context.Context, filter modcat.ModDelete) (int, error) {
				return 0, errors.New("locked")
			},
		}

		_, err := newIngester(staticFetcher(modListHTML), mods, nil).Run(context.Background(), source)

		assert.Equal(t, modcat.ESTORE, modcat.ErrorCode(err))
	})

	t.Run("records run timestamps from Now", func(t *testing.T) {
		t.Parallel()

		mods, runs := setupStore(t)
		ing := newIngester(staticFetcher(modListHTML), mods, runs)
		now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
		ing.Now = func() time.Time {
			now = now.Add(time.Second)
			return now
		}

		report, err := ing.Run(context.Background(), source)
		require.NoError(t, err)
		assert.Equal(t, time.Second, report.FinishedAt.Sub(report.StartedAt))

		recorded, err := runs.FindRuns(context.Background(), modcat.RunFilter{})
		require.NoError(t, err)
		require.Len(t, recorded, 1)
		assert.Equal(t, report.StartedAt, recorded[0].StartedAt)
		assert.Equal(t, report.Upserted, recorded[0].Upserted)
	})

	t.Run("rejects empty source URL", func(t *testing.T) {
		t.Parallel()

		_, err := newIngester(staticFetcher(""), &mock.ModService{}, nil).Run(context.Background(), "")
		assert.Equal(t, modcat.EINVALID, modcat.ErrorCode(err))
	})
}
