package hub

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shaply/rmibridge/internal/storage"
)

// motionRow is the minimal field set a CSV row contributes to a linear
// motion instruction; decodeInstruction fills in Configuration from the
// active posture at load time.
type motionRow struct {
	X, Y, Z  float64
	W, P, R  float64
	Speed    float64
	TermType string
}

func (m motionRow) marshal() ([]byte, error) { return json.Marshal(m) }

type uploadCsvPayload struct {
	ProgramID string `json:"program_id"`
	CsvData   string `json:"csv_data"`
}

// handleUploadCsv parses a simple linear-motion CSV into program
// instructions, filling unset fields from the global robot settings.
// Grounded on the reference implementation's upload_csv handler: clear
// existing instructions, parse, then append one instruction per row.
// Columns: x,y,z[,w,p,r[,speed[,term_type]]].
func handleUploadCsv(s *Session, req Request) Response {
	var p uploadCsvPayload
	if err := decodePayload(req, &p); err != nil {
		return errResponse(req, err)
	}

	ctx, cancel := reqCtx()
	defer cancel()

	settings, err := s.hub.store.GetRobotSettings(ctx)
	if err != nil {
		return errResponse(req, err)
	}

	rows, err := parseMotionCSV(p.CsvData, settings)
	if err != nil {
		return errResponse(req, err)
	}

	if err := s.hub.store.ClearInstructions(ctx, p.ProgramID); err != nil {
		return errResponse(req, err)
	}
	for i, instr := range rows {
		instr.ProgramID = p.ProgramID
		instr.Line = i + 1
		if err := s.hub.store.AppendInstruction(ctx, instr); err != nil {
			return errResponse(req, err)
		}
	}
	return ok(req.RequestID, "ProgramInstructionsList", rows)
}

func parseMotionCSV(data string, defaults *storage.RobotSettings) ([]storage.ProgramInstruction, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var out []storage.ProgramInstruction
	for lineNo, rec := range records {
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("row %d: need at least x,y,z", lineNo+1)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid x: %w", lineNo+1, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid y: %w", lineNo+1, err)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid z: %w", lineNo+1, err)
		}

		w, p, rr := 0.0, 0.0, 0.0
		if len(rec) > 5 {
			w, _ = strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
			p, _ = strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
			rr, _ = strconv.ParseFloat(strings.TrimSpace(rec[5]), 64)
		}
		speed := defaults.DefaultSpeed
		if len(rec) > 6 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[6]), 64); err == nil {
				speed = v
			}
		}
		termType := defaults.DefaultTermType
		if len(rec) > 7 && strings.TrimSpace(rec[7]) != "" {
			termType = strings.TrimSpace(rec[7])
		}

		payload := motionRow{X: x, Y: y, Z: z, W: w, P: p, R: rr, Speed: speed, TermType: termType}
		raw, err := payload.marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, storage.ProgramInstruction{
			Line:    lineNo + 1,
			Family:  "Instruction",
			Variant: "FrcLinearMotion",
			Payload: raw,
		})
	}
	return out, nil
}
