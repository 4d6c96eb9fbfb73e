// Package res holds static resources bundled into the binary.
package res

import "fyne.io/fyne/v2"

var heartOutlineSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="24" height="24">
<path fill="none" stroke="#000000" stroke-width="2" stroke-linejoin="round" d="M12 20.5l-1.3-1.2C5.6 14.7 2.5 11.9 2.5 8.4 2.5 5.6 4.7 3.5 7.4 3.5c1.6 0 3.1.7 4.1 1.9 1-1.2 2.5-1.9 4.1-1.9 2.7 0 4.9 2.1 4.9 4.9 0 3.5-3.1 6.3-8.2 10.9L12 20.5z"/>
</svg>`)

var heartFilledSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="24" height="24">
<path fill="#000000" d="M12 21.35l-1.45-1.32C5.4 15.36 2 12.28 2 8.5 2 5.42 4.42 3 7.5 3c1.74 0 3.41.81 4.5 2.09C13.09 3.81 14.76 3 16.5 3 19.58 3 22 5.42 22 8.5c0 3.78-3.4 6.86-8.55 11.54L12 21.35z"/>
</svg>`)

var themeSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="24" height="24">
<path fill="#000000" d="M12 2a10 10 0 1 0 0 20V2z"/>
<circle cx="12" cy="12" r="9" fill="none" stroke="#000000" stroke-width="2"/>
</svg>`)

// ResourceHeartOutlineSvg marks a track that is not a favorite.
var ResourceHeartOutlineSvg = fyne.NewStaticResource("heart-outline.svg", heartOutlineSVG)

// ResourceHeartFilledSvg marks a favorite.
var ResourceHeartFilledSvg = fyne.NewStaticResource("heart-filled.svg", heartFilledSVG)

// ResourceThemeSvg is the light/dark toggle icon.
var ResourceThemeSvg = fyne.NewStaticResource("theme.svg", themeSVG)
