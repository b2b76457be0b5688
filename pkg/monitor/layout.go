package monitor

// panelDimensions returns the outer width and maximum height for a panel
// on a screen of the given size.
func panelDimensions(width, height int) (int, int) {
	panelWidth := width * 70 / 100
	if panelWidth > 80 {
		panelWidth = 80
	}
	if panelWidth < 30 {
		panelWidth = 30
	}
	panelWidth = min(panelWidth, width)

	panelHeight := height * 80 / 100
	if panelHeight > 30 {
		panelHeight = 30
	}
	if panelHeight < 8 {
		panelHeight = 8
	}
	panelHeight = min(panelHeight, height)

	return panelWidth, panelHeight
}

// frame sizes: border plus horizontal padding, and the rows above the body
const (
	frameWidth  = 4
	frameHeight = 2
	headerRows  = 2
)

// bodyDimensions returns the space left for a panel body inside its frame
func bodyDimensions(width, height int) (int, int) {
	pw, ph := panelDimensions(width, height)
	return max(0, pw-frameWidth), max(0, ph-frameHeight-headerRows)
}
