package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/odelab/internal/dynamo"
)

// writeStates stores a trajectory as zstd-compressed CSV with a
// "time,x0,x1,..." header. Values keep full float64 precision.
func writeStates(path string, traj *dynamo.Trajectory) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := encodeCSV(enc, traj); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func encodeCSV(out io.Writer, traj *dynamo.Trajectory) error {
	w := csv.NewWriter(out)
	if traj.Len() > 0 {
		header := []string{"time"}
		for i := range traj.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for i := range traj.Times {
		row := make([]string, 0, len(traj.States[i])+1)
		row = append(row, strconv.FormatFloat(traj.Times[i], 'g', -1, 64))
		for _, v := range traj.States[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readStates(path string) (*dynamo.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return decodeCSV(dec)
}

func decodeCSV(in io.Reader) (*dynamo.Trajectory, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return dynamo.NewTrajectory(0), nil
	}

	traj := dynamo.NewTrajectory(len(records) - 1)
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("states line %d: %w", line+2, err)
			}
			vals[j] = v
		}
		traj.Append(vals[0], dynamo.State(vals[1:]))
	}
	return traj, nil
}
