package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/sitegen/internal/config"
)

// Doctor handles the doctor command.
//
// It validates the configuration, checks that the environment carries the
// credentials enabled features need, and looks for the local tools used by
// the scaffold. Nothing remote is contacted.
func Doctor(_ context.Context, configFile string) error {
	var cfg config.Config
	if path := configPath(configFile); path != "" {
		loaded, err := loadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		fmt.Printf("Configuration: %s\n", path)
	} else {
		fmt.Println("Configuration: none (flags or the wizard will be used)")
	}
	cfg = cfg.WithDefaults()
	env := loadEnvironment()

	problems := 0

	fmt.Println()
	fmt.Println("Configuration")
	if cfg.Project == "" {
		printRow("project", false, "not set")
		problems++
	} else {
		problems += printValidation(cfg.Validate())
	}
	for _, w := range cfg.Warnings() {
		printRow(w.Field, true, "warning: "+w.Message)
	}

	fmt.Println()
	fmt.Println("Environment")
	envProblems := printValidation(env.Check(cfg))
	problems += envProblems
	if envProblems == 0 {
		printRow("credentials for enabled features", true, "")
	}

	fmt.Println()
	fmt.Println("Local tools")
	if cfg.ScaffoldProject {
		results := checkScaffoldTools(env)
		for _, r := range results.Results {
			extra := r.Path
			if !r.Found {
				extra = "not found"
				if r.Tool.Required {
					problems++
				}
			}
			printRow(r.Tool.Name, r.Found, extra)
		}
	} else {
		printRow("scaffold disabled", true, "no tools needed")
	}
	fmt.Println()

	if problems > 0 {
		return fmt.Errorf("doctor found %d problem(s)", problems)
	}
	fmt.Println("Ready to create " + cfg.SiteDomain())
	return nil
}

// printValidation prints one row per validation error and returns how many
// errors it printed.
func printValidation(err error) int {
	if err == nil {
		return 0
	}
	var verrs config.ValidationErrors
	if !errors.As(err, &verrs) {
		printRow("validation", false, err.Error())
		return 1
	}
	count := 0
	for _, ve := range verrs {
		printRow(ve.Field, !ve.IsError(), ve.Message)
		if ve.IsError() {
			count++
		}
	}
	return count
}

func printRow(name string, ready bool, extra string) {
	indicator := "\u2705" // green check
	if !ready {
		indicator = "\u274c" // red X
	}

	if extra != "" {
		fmt.Printf("  %s  %-20s %s\n", indicator, name, extra)
	} else {
		fmt.Printf("  %s  %s\n", indicator, name)
	}
}
