package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/nchain/internal/sim"
)

// WriteCSV writes one row per recorded sample: time, every angle, every
// angular velocity, total energy and the tip position.
func WriteCSV(w io.Writer, result *sim.Result) error {
	if len(result.States) == 0 {
		return fmt.Errorf("no data to export")
	}

	cw := csv.NewWriter(w)
	n := result.States[0].Len()

	header := make([]string, 0, 2*n+4)
	header = append(header, "time")
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("theta%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("theta_dot%d", i))
	}
	header = append(header, "energy", "tip_x", "tip_y")
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, s := range result.States {
		row = append(row[:0], formatFloat(result.Times[i]))
		for _, v := range s.Thetas {
			row = append(row, formatFloat(v))
		}
		for _, v := range s.ThetaDots {
			row = append(row, formatFloat(v))
		}
		row = append(row,
			formatFloat(result.Energies[i]),
			formatFloat(result.Tips[i].X),
			formatFloat(result.Tips[i].Y),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
