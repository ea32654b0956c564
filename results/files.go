package results

// This file contains the writers and loaders for the files of a run
// directory.

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/stats"
)

// File names inside an output directory.
const (
	RawFile     = "raw.csv"
	MetaFile    = "meta.json"
	StdoutFile  = "stdout.txt"
	ProfileFile = "latency.pb.gz"
)

// Paths are the output locations of one run. Empty paths are not written.
type Paths struct {
	Raw     string
	Meta    string
	Stdout  string
	Profile string
}

// ResolvePaths places all outputs inside dir when it is set. Without a
// directory only the raw samples are written, to file.
func ResolvePaths(dir, file string, profile bool) Paths {
	if dir == "" {
		if file == "" {
			file = RawFile
		}
		return Paths{Raw: file}
	}
	p := Paths{
		Raw:    filepath.Join(dir, RawFile),
		Meta:   filepath.Join(dir, MetaFile),
		Stdout: filepath.Join(dir, StdoutFile),
	}
	if profile {
		p.Profile = filepath.Join(dir, ProfileFile)
	}
	return p
}

// writeAtomic writes path through a temporary sibling file and renames it
// into place, so readers see either the old or the complete new content.
func writeAtomic(path string, write func(w io.Writer) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	bw := bufio.NewWriter(f)
	err = write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Some platforms refuse to rename over an existing file.
		os.Remove(path)
		if err := os.Rename(tmpPath, path); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to move %s into place: %w", path, err)
		}
	}
	return nil
}

// WriteRawCSV writes one "iter,ns" row per sample in iteration order.
func WriteRawCSV(path string, samples stats.SampleSet) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"iter", "ns"}); err != nil {
			return err
		}
		row := make([]string, 2)
		for i, v := range samples {
			row[0] = strconv.Itoa(i)
			row[1] = strconv.FormatUint(v, 10)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteText writes text to path.
func WriteText(path, text string) error {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

// WriteMeta writes meta as indented JSON.
func WriteMeta(path string, meta model.RunMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run metadata: %w", err)
	}
	data = append(data, '\n')
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// LoadSamples reads a raw.csv file back into a SampleSet.
func LoadSamples(path string) (stats.SampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = 2
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if header[0] != "iter" || header[1] != "ns" {
		return nil, fmt.Errorf("unexpected header in %s: %v", path, header)
	}

	var samples stats.SampleSet
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		v, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			line, _ := r.FieldPos(1)
			return nil, fmt.Errorf("invalid sample on line %d of %s: %w", line, path, err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}

// LoadMeta reads a meta.json file.
func LoadMeta(path string) (model.RunMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RunMetadata{}, err
	}

	var meta model.RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return model.RunMetadata{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return meta, nil
}

// Run is a run directory loaded from disk.
type Run struct {
	Dir     string
	Samples stats.SampleSet
	// Nil when the directory has no meta.json
	Meta *model.RunMetadata
}

// LoadRun reads the samples and, if present, the metadata of a run
// directory.
func LoadRun(dir string) (*Run, error) {
	samples, err := LoadSamples(filepath.Join(dir, RawFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	run := &Run{Dir: dir, Samples: samples}

	meta, err := LoadMeta(filepath.Join(dir, MetaFile))
	switch {
	case err == nil:
		run.Meta = &meta
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	return run, nil
}
