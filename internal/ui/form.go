package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtorres/slate/internal/model"
)

// form field indexes.
const (
	fieldTitle = iota
	fieldDescription
	fieldPlatform
	fieldDueDate
	fieldTags
	fieldCount
)

// form is the create/edit overlay. It only collects text; structural
// validation happens in the model package and comes back through err.
type form struct {
	inputs  []textinput.Model
	focus   int
	editing bool
	base    model.ContentItem // original item when editing
	err     error
}

func newForm(base model.ContentItem, editing bool) *form {
	labels := [fieldCount]string{"title", "description", "platform", "due (2006-01-02)", "tags (comma separated)"}
	values := [fieldCount]string{
		base.Title,
		base.Description,
		string(base.Platform),
		"",
		strings.Join(base.Tags, ", "),
	}
	if !base.DueDate.IsZero() {
		values[fieldDueDate] = base.DueDate.Format("2006-01-02")
	}
	if !editing && values[fieldPlatform] == "" {
		values[fieldPlatform] = string(model.PlatformOther)
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.SetValue(values[i])
		in.CharLimit = 200
		inputs[i] = in
	}
	inputs[fieldTitle].Focus()

	return &form{inputs: inputs, editing: editing, base: base}
}

func (f *form) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *form) prev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + fieldCount - 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// item builds a ContentItem from the form fields. Parse failures (bad due
// date, unknown platform) surface here; structural validation is left to
// the coordinator path.
func (f *form) item() (model.ContentItem, error) {
	title := f.inputs[fieldTitle].Value()
	desc := f.inputs[fieldDescription].Value()

	platform, err := model.ParsePlatform(strings.TrimSpace(f.inputs[fieldPlatform].Value()))
	if err != nil {
		return model.ContentItem{}, err
	}

	var due time.Time
	if raw := strings.TrimSpace(f.inputs[fieldDueDate].Value()); raw != "" {
		due, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return model.ContentItem{}, fmt.Errorf("due date: %w", err)
		}
	}

	var tags []string
	for _, t := range strings.Split(f.inputs[fieldTags].Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	if !f.editing {
		return model.NewItem(title, desc, platform, due, tags), nil
	}

	item := f.base.Clone()
	item.Title = title
	item.Description = desc
	item.Platform = platform
	item.DueDate = due
	item.Tags = tags
	return item, nil
}
