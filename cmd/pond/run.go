package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/siavelis/pond/aggregate"
	"github.com/siavelis/pond/collection"
	"github.com/siavelis/pond/event"
	"github.com/siavelis/pond/pipeline"
)

func init() {
	var configPath string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drive csv samples through the configured pipeline and print emitted events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "pond.yml", "pipeline config file")
	Command.AddCommand(runCmd)
}

func run(cfg Config) error {
	events, err := readEvents(cfg.Source, cfg.TimeField)
	if err != nil {
		return err
	}

	p := pipeline.New().
		From(collection.New(events...)).
		EmitOn(cfg.EmitOn)
	if cfg.Window != "" {
		p = p.WindowBy(pipeline.WindowSpec{Type: "Fixed", Duration: cfg.Window})
	}
	if cfg.GroupBy != "" {
		p = p.GroupBy(cfg.GroupBy)
	}

	var fields []pipeline.FieldSpec
	for _, af := range cfg.Aggregate {
		reducer, err := aggregate.ByName(af.Reducer)
		if err != nil {
			return err
		}
		fields = append(fields, pipeline.FieldSpec{Field: af.Field, Reducer: reducer})
	}
	if len(fields) > 0 {
		p = p.Aggregate(fields...)
	}

	_, err = p.To(pipeline.NewCallbackSink(func(e event.Event, group string) {
		line, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if group != "" {
			fmt.Printf("%s %s\n", group, line)
		} else {
			fmt.Println(string(line))
		}
	}))
	return err
}

// readEvents loads a csv file with a header row into point events, parsing
// the time column as epoch milliseconds and every other column as a float
// where possible.
func readEvents(path, timeField string) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.WithMessagef(err, "reading header of %s", path)
	}
	timeCol := -1
	for i, name := range header {
		if name == timeField {
			timeCol = i
		}
	}
	if timeCol < 0 {
		return nil, errors.Errorf("no %q column in %s", timeField, path)
	}

	var events []event.Event
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		millis, err := strconv.ParseInt(record[timeCol], 10, 64)
		if err != nil {
			return nil, errors.WithMessagef(err, "bad %q value %q", timeField, record[timeCol])
		}
		var fields []event.Field
		for i, name := range header {
			if i == timeCol {
				continue
			}
			if n, err := strconv.ParseFloat(record[i], 64); err == nil {
				fields = append(fields, event.Field{Key: name, Value: n})
			} else {
				fields = append(fields, event.Field{Key: name, Value: record[i]})
			}
		}
		events = append(events, event.NewPoint(time.UnixMilli(millis), event.NewData(fields...)))
	}
	return events, nil
}
