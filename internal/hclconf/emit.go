package hclconf

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Emit writes m as an HCL scenario file that Load reads back to the same
// model. The scenario block is omitted when m declares no scenario.
func Emit(w io.Writer, m *config.Model) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if m.Scenario != (config.Scenario{}) {
		sb := body.AppendNewBlock("scenario", nil).Body()
		if m.Scenario.Start != "" {
			sb.SetAttributeValue("start", cty.StringVal(m.Scenario.Start))
		}
		if m.Scenario.SoloMinutes != nil {
			sb.SetAttributeValue("solo_minutes", cty.NumberIntVal(int64(*m.Scenario.SoloMinutes)))
		}
		if m.Scenario.DuoMinutes != nil {
			sb.SetAttributeValue("duo_minutes", cty.NumberIntVal(int64(*m.Scenario.DuoMinutes)))
		}
		body.AppendNewline()
	}

	for i, n := range m.Nodes {
		if i > 0 {
			body.AppendNewline()
		}
		nb := body.AppendNewBlock("node", []string{n.Name}).Body()
		nb.SetAttributeValue("rate", cty.NumberIntVal(int64(n.Rate)))
		nb.SetAttributeValue("tunnels", tunnelList(n.Tunnels))
	}

	if _, err := w.Write(f.Bytes()); err != nil {
		return fmt.Errorf("writing HCL: %w", err)
	}
	return nil
}

func tunnelList(names []string) cty.Value {
	if len(names) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(names))
	for i, name := range names {
		vals[i] = cty.StringVal(name)
	}
	return cty.ListVal(vals)
}
