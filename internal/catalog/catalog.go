package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

//go:embed content
var embeddedContent embed.FS

const (
	typesFile       = "neuroleader_types.json"
	testFile        = "neuroleader_type_test.json"
	resourcesFile   = "neuroleader_resources.json"
	descriptionsDir = "neuroleader_types"
)

// TypeDefinition is one of the six fixed neuroleader types. The JSON keys
// mirror the content files authored for the course, including the Polish ones.
type TypeDefinition struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	ShortDescription string `json:"short_description"`
	Supermoc         string `json:"supermoc"`
	Slabosc          string `json:"słabość"`
	Neurobiologia    string `json:"neurobiologia"`
}

// Question is a single Likert item of the typology test. Type references a
// TypeDefinition.ID and decides which type the answer contributes to.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// TestInfo carries the display metadata of the typology test.
type TestInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
}

// InterpretationTexts are the per-type texts shown for each score band.
type InterpretationTexts struct {
	Low    string `json:"low"`
	Medium string `json:"medium"`
	High   string `json:"high"`
}

// Resources lists recommended development material for one type.
type Resources struct {
	Courses   []string `json:"kursy"`
	Books     []string `json:"książki"`
	Exercises []string `json:"ćwiczenia"`
	Materials []string `json:"materiały"`
}

type testDocument struct {
	TestName            string                         `json:"test_name"`
	Description         string                         `json:"description"`
	Instructions        string                         `json:"instructions"`
	Questions           []Question                     `json:"questions"`
	ScoreInterpretation map[string]InterpretationTexts `json:"score_interpretation"`
}

// Catalog holds the static type and question definitions for the lifetime of
// the process. Loading is fail-soft: a missing or malformed source degrades
// to empty collections with a logged warning, never a crash.
type Catalog struct {
	contentDir string
	types      []TypeDefinition
	questions  []Question
	info       TestInfo
	interp     map[string]InterpretationTexts
	resources  map[string]Resources
	err        error
}

// Load reads the catalog documents from contentDir, falling back to the
// embedded defaults for any file the directory does not provide. An empty
// contentDir loads the embedded defaults only.
func Load(contentDir string) *Catalog {
	c := &Catalog{
		contentDir: contentDir,
		interp:     map[string]InterpretationTexts{},
		resources:  map[string]Resources{},
	}
	if err := c.loadTypes(); err != nil {
		log.Printf("catalog: load types: %v", err)
		c.types = nil
		c.err = errors.Join(c.err, err)
	}
	if err := c.loadTest(); err != nil {
		log.Printf("catalog: load test: %v", err)
		c.questions = nil
		c.err = errors.Join(c.err, err)
	}
	if err := c.loadResources(); err != nil {
		log.Printf("catalog: load resources: %v", err)
		c.err = errors.Join(c.err, err)
	}
	c.warnDanglingQuestionTypes()
	return c
}

func (c *Catalog) loadTypes() error {
	raw, err := c.loadDocument(typesFile)
	if err != nil {
		return err
	}
	if err := validateDocument("types.schema.json", raw); err != nil {
		return err
	}
	var types []TypeDefinition
	if err := json.Unmarshal(raw, &types); err != nil {
		return fmt.Errorf("decode %s: %w", typesFile, err)
	}
	seen := map[string]bool{}
	for _, t := range types {
		if seen[t.ID] {
			return fmt.Errorf("duplicate type id %q", t.ID)
		}
		seen[t.ID] = true
	}
	c.types = types
	return nil
}

func (c *Catalog) loadTest() error {
	raw, err := c.loadDocument(testFile)
	if err != nil {
		return err
	}
	if err := validateDocument("test.schema.json", raw); err != nil {
		return err
	}
	var doc testDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", testFile, err)
	}
	c.questions = doc.Questions
	c.info = TestInfo{
		Name:         doc.TestName,
		Description:  doc.Description,
		Instructions: doc.Instructions,
	}
	if c.info.Name == "" {
		c.info.Name = "Test Typologii Neuroliderów"
	}
	if doc.ScoreInterpretation != nil {
		c.interp = doc.ScoreInterpretation
	}
	return nil
}

func (c *Catalog) loadResources() error {
	raw, err := c.loadDocument(resourcesFile)
	if err != nil {
		return err
	}
	if err := validateDocument("resources.schema.json", raw); err != nil {
		return err
	}
	var res map[string]Resources
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("decode %s: %w", resourcesFile, err)
	}
	if res != nil {
		c.resources = res
	}
	return nil
}

// loadDocument reads name from the content dir when present, otherwise from
// the embedded defaults.
func (c *Catalog) loadDocument(name string) ([]byte, error) {
	if c.contentDir != "" {
		data, err := os.ReadFile(filepath.Join(c.contentDir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	data, err := embeddedContent.ReadFile("content/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return data, nil
}

func (c *Catalog) warnDanglingQuestionTypes() {
	if len(c.types) == 0 {
		return
	}
	for _, q := range c.questions {
		if c.TypeByID(q.Type) == nil {
			log.Printf("catalog: question %s references unknown type %q", q.ID, q.Type)
		}
	}
}

// Err reports the cause when any catalog document failed to load. The
// catalog is still usable; the affected collections are empty.
func (c *Catalog) Err() error { return c.err }

// Types returns the type definitions in declaration order.
func (c *Catalog) Types() []TypeDefinition {
	return append([]TypeDefinition(nil), c.types...)
}

// Questions returns the test questions in declaration order.
func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

// TestInfo returns the test display metadata.
func (c *Catalog) TestInfo() TestInfo { return c.info }

// TypeByID returns the type with the given id, or nil when absent.
// The catalog is small; a linear scan is fine.
func (c *Catalog) TypeByID(id string) *TypeDefinition {
	for i := range c.types {
		if c.types[i].ID == id {
			t := c.types[i]
			return &t
		}
	}
	return nil
}

// InterpretationText returns the per-type text for a score band
// ("low", "medium" or "high"), or "" when the catalog has none.
func (c *Catalog) InterpretationText(typeID, band string) string {
	texts, ok := c.interp[typeID]
	if !ok {
		return ""
	}
	switch band {
	case "low":
		return texts.Low
	case "medium":
		return texts.Medium
	case "high":
		return texts.High
	}
	return ""
}

// ResourcesForType returns the recommended material for a type. Unknown
// types get empty lists rather than an error.
func (c *Catalog) ResourcesForType(typeID string) Resources {
	if res, ok := c.resources[typeID]; ok {
		return res
	}
	return Resources{Courses: []string{}, Books: []string{}, Exercises: []string{}, Materials: []string{}}
}

// TypeDescription returns the long markdown description for a type, or ""
// when the type is unknown or the description cannot be read.
func (c *Catalog) TypeDescription(typeID string) string {
	if c.TypeByID(typeID) == nil {
		return ""
	}
	name := filepath.Join(descriptionsDir, typeID+".md")
	if c.contentDir != "" {
		data, err := os.ReadFile(filepath.Join(c.contentDir, name))
		if err == nil {
			return string(data)
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("catalog: read description for %s: %v", typeID, err)
			return ""
		}
	}
	data, err := embeddedContent.ReadFile("content/" + descriptionsDir + "/" + typeID + ".md")
	if err != nil {
		log.Printf("catalog: no description for %s: %v", typeID, err)
		return ""
	}
	return string(data)
}
