package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.bug.st/serial"

	"github.com/jwiersma/telehand/pkg/pilot"
	"github.com/jwiersma/telehand/pkg/transmit"
)

type SetupCommand struct{}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println("Telehand setup")
	fmt.Println()

	s := pilot.DefaultSettings()
	if existing, err := pilot.LoadSettings(); err == nil {
		s = *existing
		fmt.Printf("Updating existing %s\n\n", pilot.DefaultSettingsFile)
	}

	ports := usablePorts()
	if len(ports) == 0 {
		fmt.Println("No serial ports found. The hand controller can be configured later;")
		fmt.Println("the pipeline runs without transmission in the meantime.")
	} else {
		options := make([]huh.Option[string], 0, len(ports)+1)
		for _, p := range ports {
			options = append(options, huh.NewOption(p, p))
		}
		options = append(options, huh.NewOption("None (run without serial)", ""))

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Serial port for the hand controller").
					Options(options...).
					Value(&s.SerialPort),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}
	s.EnableSerial = s.SerialPort != ""

	rate := fmt.Sprintf("%d", s.Rate)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Transmit rate in Hz (%d-%d)", transmit.MinRate, transmit.MaxRate)).
				Value(&rate).
				Validate(validateRate),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	fmt.Sscanf(rate, "%d", &s.Rate)

	if err := s.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", pilot.DefaultSettingsFile)
	fmt.Println()
	fmt.Println("Start the pipeline with: telehand run")

	return nil
}

func validateRate(s string) error {
	var rate int
	if _, err := fmt.Sscanf(s, "%d", &rate); err != nil {
		return fmt.Errorf("not a number")
	}
	if rate < transmit.MinRate || rate > transmit.MaxRate {
		return fmt.Errorf("must be between %d and %d", transmit.MinRate, transmit.MaxRate)
	}
	return nil
}

func usablePorts() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}
	var out []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		out = append(out, port)
	}
	return out
}
