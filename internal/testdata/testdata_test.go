package testdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/gridpulse/internal/adapters/http/api"
	"github.com/okian/gridpulse/internal/adapters/render"
	"github.com/okian/gridpulse/internal/adapters/repository"
	service "github.com/okian/gridpulse/internal/app"
	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/outcome"
	"github.com/okian/gridpulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.Rows = 437
	cfg.Seed = 42
	return cfg
}

func TestGenerate(t *testing.T) {
	Convey("Given a generator config", t, func() {
		ctx := context.Background()
		cfg := smallConfig()

		Convey("When generating", func() {
			stats := &Stats{}
			rows, err := Generate(ctx, cfg, stats)

			Convey("Then exactly cfg.Rows rows are produced", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, cfg.Rows)
				So(stats.RowsGenerated, ShouldEqual, cfg.Rows)
			})

			Convey("And grids and positions stay in range", func() {
				for _, r := range rows {
					So(r.Grid, ShouldBeBetweenOrEqual, 0, cfg.Drivers)
					So(r.Position, ShouldBeBetweenOrEqual, 0, cfg.Drivers)
					So(r.CircuitName, ShouldNotBeEmpty)
				}
			})

			Convey("And classified positions are unique within a race", func() {
				seen := map[string]map[int]bool{}
				for _, r := range rows {
					if r.Position == 0 {
						continue
					}
					if seen[r.RaceID] == nil {
						seen[r.RaceID] = map[int]bool{}
					}
					So(seen[r.RaceID][r.Position], ShouldBeFalse)
					seen[r.RaceID][r.Position] = true
				}
			})

			Convey("And the counters match the rows", func() {
				pit, dnf := 0, 0
				for _, r := range rows {
					if r.Grid == 0 {
						pit++
					}
					if r.Position == 0 {
						dnf++
					}
				}
				So(stats.RowsPitLane, ShouldEqual, pit)
				So(stats.RowsUnclassified, ShouldEqual, dnf)
				So(dnf, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When generating twice with different worker counts", func() {
			a, errA := Generate(ctx, cfg, &Stats{})
			cfg.Workers = 1
			b, errB := Generate(ctx, cfg, &Stats{})

			Convey("Then the output is identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the seed changes", func() {
			a, _ := Generate(ctx, cfg, &Stats{})
			cfg.Seed++
			b, _ := Generate(ctx, cfg, &Stats{})

			Convey("Then the output differs", func() {
				So(a, ShouldNotResemble, b)
			})
		})

		Convey("When the config is invalid", func() {
			cfg.Rows = 0
			_, err := Generate(ctx, cfg, &Stats{})

			Convey("Then ErrInvalidConfig is returned", func() {
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Generate(cctx, cfg, &Stats{})

			Convey("Then generation stops with an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given rows with a retirement and a pit lane start", t, func() {
		rows := []model.RaceResult{
			{RaceID: "1", Year: 2001, CircuitName: "Monza", Driver: "a", Grid: 1, Position: 1},
			{RaceID: "1", Year: 2001, CircuitName: "Monza", Driver: "b", Grid: 2, Position: 0},
			{RaceID: "1", Year: 2001, CircuitName: "Monza", Driver: "c", Grid: 0, Position: 2},
		}

		Convey("When writing with a semicolon", func() {
			var buf bytes.Buffer
			err := WriteCSV(&buf, rows, ';')

			Convey("Then the loader reads it back", func() {
				So(err, ShouldBeNil)
				So(strings.Split(buf.String(), "\n")[0], ShouldEqual, "raceId;year;circuitName;driverRef;grid;position")
				So(buf.String(), ShouldContainSubstring, `;2;\N`)

				ds, err := repository.Read(context.Background(), &buf, repository.WithComma(';'))
				So(err, ShouldBeNil)
				So(ds.Count(context.Background()), ShouldEqual, 2)
				So(ds.Dropped(), ShouldEqual, 1)
				So(ds.Rows(context.Background())[1].Position, ShouldEqual, 0)
			})
		})
	})
}

func TestVerifyShares(t *testing.T) {
	Convey("Given aggregate rows", t, func() {
		Convey("Then shares summing to 100 pass", func() {
			So(verifyShares([]model.AggregateRow{
				{Grid: 1, Proportion: 33.33}, {Grid: 1, Proportion: 33.33}, {Grid: 1, Proportion: 33.33},
			}), ShouldBeNil)
		})

		Convey("And shares far from 100 fail", func() {
			So(verifyShares([]model.AggregateRow{{Grid: 1, Proportion: 50}}), ShouldNotBeNil)
		})
	})
}

func TestViewDecoding(t *testing.T) {
	Convey("Given a view document from the dashboard", t, func() {
		body := `{"seq":3,"selection":["Monza"],"rows":2,"aggregates":[
			{"grid":1,"category":"Podium Finish","count":1,"proportion":50},
			{"grid":1,"category":"unclassified","count":1,"proportion":50}]}`

		Convey("Then category labels decode back to categories", func() {
			var v view
			So(json.Unmarshal([]byte(body), &v), ShouldBeNil)
			So(len(v.Aggregates), ShouldEqual, 2)
			So(v.Aggregates[0].Category, ShouldEqual, outcome.Podium)
			So(v.Aggregates[1].Category, ShouldEqual, outcome.Unclassified)
			So(verifyShares(v.Aggregates), ShouldBeNil)
		})

		Convey("And an unknown label is rejected", func() {
			var v view
			err := json.Unmarshal([]byte(`{"aggregates":[{"category":"DNF"}]}`), &v)
			So(errors.Is(err, outcome.ErrUnknownCategory), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a run writing to a temp dir", t, func() {
		ctx := context.Background()
		cfg := smallConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "nested", "results.csv")

		Convey("When running without a dashboard", func() {
			stats, err := Run(ctx, cfg)

			Convey("Then the file is written and verified", func() {
				So(err, ShouldBeNil)
				So(stats.RowsLoaded, ShouldEqual, stats.RowsGenerated-stats.RowsPitLane)
				So(stats.Circuits, ShouldEqual, len(Circuits))
				So(stats.SelectionsPosted, ShouldEqual, 0)
			})
		})

		Convey("When running against a live dashboard", func() {
			rows, err := Generate(ctx, cfg, &Stats{})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(WriteCSV(&buf, rows, ','), ShouldBeNil)
			ds, err := repository.Read(ctx, &buf)
			So(err, ShouldBeNil)

			svc := service.New(ds)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			g, err := render.NewGoChart()
			So(err, ShouldBeNil)
			mux := http.NewServeMux()
			api.NewServer(svc, svc, api.NewCharts(g)).Register(ctx, mux)
			srv := httptest.NewServer(mux)
			defer srv.Close()

			cfg.BaseURL = srv.URL
			cfg.Selections = 40
			stats, err := Run(ctx, cfg)

			Convey("Then every selection lands and the newest view is displayed", func() {
				So(err, ShouldBeNil)
				So(stats.SelectionsPosted, ShouldEqual, 40)
				So(stats.SelectionsFailed, ShouldEqual, 0)
				So(stats.DisplayedSeq, ShouldBeGreaterThanOrEqualTo, stats.HighestSeq)
				So(svc.Current().Seq, ShouldEqual, 41)
			})
		})

		Convey("When the dashboard is unreachable", func() {
			cfg.BaseURL = "http://127.0.0.1:1"
			cfg.Selections = 1
			_, err := Run(ctx, cfg)

			Convey("Then the run fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestPick(t *testing.T) {
	Convey("Given circuit options", t, func() {
		opts := []model.Option{{Value: "a"}, {Value: "b"}, {Value: "c"}}

		Convey("Then picks are reproducible subsets", func() {
			So(pick(7, 3, opts), ShouldResemble, pick(7, 3, opts))
			So(len(pick(7, 3, opts)), ShouldBeLessThanOrEqualTo, 3)
		})
	})
}
