package display

import (
	"fmt"
	"os"

	"github.com/HamedEmine/ComfyUi-webp-converter/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` __        __   _    ____   ____
 \ \      / /__| |__|  _ \ / ___|___  _ ____   __
  \ \ /\ / / _ \ '_ \ |_) | |   / _ \| '_ \ \ / /
   \ V  V /  __/ |_) |  __/| |__| (_) | | | \ V /
    \_/\_/ \___|_.__/|_|    \____\___/|_| |_|\_/
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
