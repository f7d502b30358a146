package forecast

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"commodity-forecast/internal/model"
)

// WriteStepsCSV writes one row per forecast day, including the feature
// vector the model saw, to path.
func WriteStepsCSV(path string, steps []StepRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeStepsCSV(f, steps)
}

func EncodeStepsCSV(out io.Writer, steps []StepRow) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := append([]string{"index", "date", "raw_price", "price"}, model.FeatureOrder...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range steps {
		row := []string{
			strconv.Itoa(r.Index),
			r.Date.Format(model.DateLayout),
			fmtFloat(r.RawPrice),
			strconv.FormatFloat(r.Price, 'f', PriceDecimals, 64),
		}
		for _, fld := range r.Features.Fields() {
			if fld.Categorical {
				row = append(row, fld.Text)
				continue
			}
			row = append(row, fmtFloat(fld.Number))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
