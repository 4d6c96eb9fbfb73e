package res

// AboutContent is the Markdown shown in the About dialog.
const AboutContent = `A small music player built with Go and Fyne.

**Features:**
- Plays MP3, FLAC, WAV and Ogg Vorbis
- Live frequency spectrum
- Favorites that survive restarts
- Playback speed from 0.5x to 2x
- Light and dark themes
`
