package familydata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/zeebo/xxh3"

	"github.com/jakechorley/workshop/pkg/core/booking"
)

// Column names in the family data and submission files
const (
	ColumnFamilyID    = "family_id"
	ColumnPeople      = "n_people"
	ColumnAssignedDay = "assigned_day"
	ChoiceCount       = 10
)

// ChoiceColumn returns the header of the choice at rank (choice_0 .. choice_9)
func ChoiceColumn(rank int) string {
	return fmt.Sprintf("choice_%d", rank)
}

// InvalidRecordError describes a malformed row in the family data
type InvalidRecordError struct {
	// Line is the 1-based line number in the file (the header is line 1)
	Line   int
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid record on line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid record on line %d: %s %s", e.Line, e.Field, e.Reason)
}

// FamilyRecord is a single row of the family data
type FamilyRecord struct {
	FamilyID int   `validate:"min=0"`
	Choices  []int `validate:"min=1,max=10,unique,dive,min=1"`
	People   int   `validate:"min=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadFamiliesFromPath reads the family data CSV at path
func LoadFamiliesFromPath(path string, days int) ([]*booking.Group, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open family data: %w", err)
	}
	defer file.Close()

	return LoadFamilies(file, days)
}

// LoadFamilies parses family data and returns one group per row, in file order.
// Every row is checked before any group is returned; the first malformed row fails the load.
func LoadFamilies(r io.Reader, days int) ([]*booking.Group, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &InvalidRecordError{Line: 1, Reason: "missing header row"}
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := indexFamilyColumns(header)
	if err != nil {
		return nil, err
	}

	var groups []*booking.Group
	seen := make(map[int]bool)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &InvalidRecordError{Line: line, Reason: err.Error()}
		}

		record, err := parseFamilyRow(row, columns, line)
		if err != nil {
			return nil, err
		}

		if err := checkFamilyRecord(record, days, line); err != nil {
			return nil, err
		}

		if seen[record.FamilyID] {
			return nil, &InvalidRecordError{Line: line, Field: ColumnFamilyID, Reason: "is duplicated"}
		}
		seen[record.FamilyID] = true

		groups = append(groups, booking.NewGroup(record.FamilyID, record.Choices, record.People))
	}

	return groups, nil
}

type familyColumns struct {
	familyID int
	people   int
	choices  []int
}

func indexFamilyColumns(header []string) (familyColumns, error) {
	indexes := make(map[string]int, len(header))
	for i, name := range header {
		indexes[strings.TrimSpace(name)] = i
	}

	lookup := func(name string) (int, error) {
		idx, ok := indexes[name]
		if !ok {
			return 0, &InvalidRecordError{Line: 1, Field: name, Reason: "column is missing"}
		}
		return idx, nil
	}

	var columns familyColumns
	var err error
	if columns.familyID, err = lookup(ColumnFamilyID); err != nil {
		return columns, err
	}
	if columns.people, err = lookup(ColumnPeople); err != nil {
		return columns, err
	}

	// Choices are optional past the first so shorter wishlists still load
	for rank := 0; rank < ChoiceCount; rank++ {
		idx, err := lookup(ChoiceColumn(rank))
		if err != nil {
			if rank == 0 {
				return columns, err
			}
			break
		}
		columns.choices = append(columns.choices, idx)
	}

	return columns, nil
}

func parseFamilyRow(row []string, columns familyColumns, line int) (FamilyRecord, error) {
	field := func(idx int, name string) (int, error) {
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			return 0, &InvalidRecordError{Line: line, Field: name, Reason: "is missing"}
		}
		value, err := strconv.Atoi(strings.TrimSpace(row[idx]))
		if err != nil {
			return 0, &InvalidRecordError{Line: line, Field: name, Reason: "is not a number"}
		}
		return value, nil
	}

	var record FamilyRecord
	var err error
	if record.FamilyID, err = field(columns.familyID, ColumnFamilyID); err != nil {
		return record, err
	}
	if record.People, err = field(columns.people, ColumnPeople); err != nil {
		return record, err
	}
	for rank, idx := range columns.choices {
		choice, err := field(idx, ChoiceColumn(rank))
		if err != nil {
			return record, err
		}
		record.Choices = append(record.Choices, choice)
	}

	return record, nil
}

func checkFamilyRecord(record FamilyRecord, days, line int) error {
	if err := validate.Struct(record); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			return &InvalidRecordError{
				Line:   line,
				Field:  first.Field(),
				Reason: fmt.Sprintf("failed %q validation", first.Tag()),
			}
		}
		return &InvalidRecordError{Line: line, Reason: err.Error()}
	}

	for rank, day := range record.Choices {
		if day > days {
			return &InvalidRecordError{
				Line:   line,
				Field:  ChoiceColumn(rank),
				Reason: fmt.Sprintf("day %d is outside 1..%d", day, days),
			}
		}
	}

	return nil
}

// WriteSubmissionToPath writes the assignments as a submission CSV, creating the
// directory if needed
func WriteSubmissionToPath(path string, assignments []booking.Assignment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create submission file: %w", err)
	}

	if err := WriteSubmission(file, assignments); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close submission file: %w", err)
	}
	return nil
}

// WriteSubmission writes one family_id,assigned_day row per assignment
func WriteSubmission(w io.Writer, assignments []booking.Assignment) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{ColumnFamilyID, ColumnAssignedDay}); err != nil {
		return fmt.Errorf("failed to write submission header: %w", err)
	}
	for _, a := range assignments {
		row := []string{strconv.Itoa(a.FamilyID), strconv.Itoa(a.AssignedDay)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write submission row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush submission: %w", err)
	}
	return nil
}

// LoadSubmissionFromPath reads a submission CSV at path
func LoadSubmissionFromPath(path string) ([]booking.Assignment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open submission: %w", err)
	}
	defer file.Close()

	return LoadSubmission(file)
}

// LoadSubmission parses a family_id,assigned_day CSV
func LoadSubmission(r io.Reader) ([]booking.Assignment, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}
	if len(rows) == 0 {
		return nil, &InvalidRecordError{Line: 1, Reason: "missing header row"}
	}

	familyIdx, dayIdx := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case ColumnFamilyID:
			familyIdx = i
		case ColumnAssignedDay:
			dayIdx = i
		}
	}
	if familyIdx < 0 {
		return nil, &InvalidRecordError{Line: 1, Field: ColumnFamilyID, Reason: "column is missing"}
	}
	if dayIdx < 0 {
		return nil, &InvalidRecordError{Line: 1, Field: ColumnAssignedDay, Reason: "column is missing"}
	}

	assignments := make([]booking.Assignment, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		familyID, err := strconv.Atoi(strings.TrimSpace(row[familyIdx]))
		if err != nil {
			return nil, &InvalidRecordError{Line: line, Field: ColumnFamilyID, Reason: "is not a number"}
		}
		day, err := strconv.Atoi(strings.TrimSpace(row[dayIdx]))
		if err != nil {
			return nil, &InvalidRecordError{Line: line, Field: ColumnAssignedDay, Reason: "is not a number"}
		}
		assignments = append(assignments, booking.Assignment{FamilyID: familyID, AssignedDay: day})
	}

	return assignments, nil
}

// Fingerprint hashes the families' ids, sizes and wishlists in order.
// Identical inputs always produce the same fingerprint.
func Fingerprint(groups []*booking.Group) string {
	hasher := xxh3.New()
	for _, group := range groups {
		fmt.Fprintf(hasher, "%d:%d:", group.ID, group.Size)
		for _, day := range group.Wishlist {
			fmt.Fprintf(hasher, "%d,", day)
		}
		hasher.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
