package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/finops-tools/cloudopt/pkg/services/analysis"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// Report is the renderable outcome of one analysis run.
type Report struct {
	Provider    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Result      analysis.Result
}

// Reporter renders reports to a single writer in the selected format.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (r *Reporter) Handle(report Report, format Format) error {
	switch format {
	case FormatText, "":
		return r.renderText(report)
	case FormatJSON:
		return r.renderJSON(report)
	case FormatCSV:
		return r.renderCSV(report)
	case FormatHTML:
		return r.renderHTML(report)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
