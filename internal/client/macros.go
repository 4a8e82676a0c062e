package client

import (
	"context"
	"fmt"
)

// NoSuchMacro is the reason the endpoint gives for a missing macro.
const NoSuchMacro = "No such macro"

type macroGetResult struct {
	Macros []struct {
		Name    string `xml:"Name"`
		Active  string `xml:"Active"`
		Content string `xml:"Content"`
	} `xml:"Macro"`
}

// SaveMacro writes content into a macro file on the device, replacing any existing one.
// The macro is saved without transpiling since it only carries data.
func (c *XAPIClient) SaveMacro(ctx context.Context, name, content string) error {
	params := []param{
		arg("Name", name),
		arg("Overwrite", "True"),
		arg("Transpile", "False"),
	}
	return c.command(ctx, []string{"Macros", "Macro", "Save"}, params, content, nil)
}

// MacroContent returns the content of a macro file. A missing macro yields a
// CommandError whose reason is NoSuchMacro.
func (c *XAPIClient) MacroContent(ctx context.Context, name string) (string, error) {
	var res macroGetResult
	params := []param{arg("Content", "True"), arg("Name", name)}
	if err := c.command(ctx, []string{"Macros", "Macro", "Get"}, params, "", &res); err != nil {
		return "", err
	}
	if len(res.Macros) == 0 {
		return "", &CommandError{Command: "Macros Macro Get", Reason: NoSuchMacro}
	}
	return res.Macros[0].Content, nil
}

// DeactivateMacro runs Macros Macro Deactivate.
func (c *XAPIClient) DeactivateMacro(ctx context.Context, name string) error {
	if err := c.command(ctx, []string{"Macros", "Macro", "Deactivate"},
		[]param{arg("Name", name)}, "", nil); err != nil {
		return fmt.Errorf("deactivate macro %q: %w", name, err)
	}
	return nil
}
