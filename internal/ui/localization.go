package ui

import "strings"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyURL                = "url"
	KeyDestination        = "destination"
	KeyFormat             = "format"
	KeyItems              = "items"
	KeyListFormats        = "list_formats"
	KeyChoose             = "choose"
	KeyAudioOnly          = "audio_only"
	KeyPlaylist           = "playlist"
	KeyThumbnail          = "thumbnail"
	KeyPreferMP4          = "prefer_mp4"
	KeyDownload           = "download"
	KeyCancel             = "cancel"
	KeyLog                = "log"
	KeyReady              = "ready"
	KeyFile               = "file"
	KeySettings           = "settings"
	KeyOpenFolder         = "open_folder"
	KeyHelp               = "help"
	KeyAbout              = "about"
	KeySave               = "save"
	KeyBrowserIntegration = "browser_integration"
	KeyAppliesOnRestart   = "applies_on_restart"
	KeySettingsSaved      = "settings_saved"
	KeyWarning            = "warning"
	KeyError              = "error"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyInvalidURL         = "invalid_url"
	KeyChooseDestination  = "choose_destination"
	KeyInvalidDestination = "invalid_destination"
	KeyInvalidItems       = "invalid_items"
	KeyListingFormats     = "listing_formats"
	KeyFormatsFound       = "formats_found"
	KeyListFailed         = "list_failed"
	KeyNoFormatListed     = "no_format_listed"
	KeyResolvingPlaylist  = "resolving_playlist"
	KeyStarting           = "starting"
	KeyCancelling         = "cancelling"
	KeyBridgeJob          = "bridge_job"
	KeyFFmpegMissing      = "ffmpeg_missing"
	KeyFFmpegMissingHint  = "ffmpeg_missing_hint"
)

// NewLocalization creates a localization manager for a locale such as
// "pt-BR"; unknown languages fall back to English.
func NewLocalization(locale string) *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}
	l.initializeTexts()
	l.SetLanguage(locale)
	return l
}

// SetLanguage selects the language by the primary subtag of locale
func (l *Localization) SetLanguage(locale string) {
	lang, _, _ := strings.Cut(strings.ToLower(locale), "-")
	lang, _, _ = strings.Cut(lang, "_")
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if text, found := l.texts[l.currentLanguage][key]; found {
		return text
	}
	if text, found := l.texts["en"][key]; found {
		return text
	}
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Video Downloader",
		KeyURL:                "URL:",
		KeyDestination:        "Destination:",
		KeyFormat:             "Format:",
		KeyItems:              "Items:",
		KeyListFormats:        "List formats",
		KeyChoose:             "Choose...",
		KeyAudioOnly:          "Audio only (mp3)",
		KeyPlaylist:           "Whole playlist",
		KeyThumbnail:          "Thumbnail",
		KeyPreferMP4:          "Prefer MP4 (compatible)",
		KeyDownload:           "Download",
		KeyCancel:             "Cancel",
		KeyLog:                "Log",
		KeyReady:              "Ready",
		KeyFile:               "File",
		KeySettings:           "Settings",
		KeyOpenFolder:         "Open destination folder",
		KeyHelp:               "Help",
		KeyAbout:              "About",
		KeySave:               "Save",
		KeyBrowserIntegration: "Accept downloads from the browser extension",
		KeyAppliesOnRestart:   "Browser integration changes apply on the next start.",
		KeySettingsSaved:      "Settings saved",
		KeyWarning:            "Warning",
		KeyError:              "Error",
		KeyPleaseEnterURL:     "Please enter a URL",
		KeyInvalidURL:         "Invalid URL",
		KeyChooseDestination:  "Choose the destination folder",
		KeyInvalidDestination: "Invalid destination directory",
		KeyInvalidItems:       "Invalid item selection",
		KeyListingFormats:     "Listing formats...",
		KeyFormatsFound:       "%d formats found",
		KeyListFailed:         "Error while listing",
		KeyNoFormatListed:     "No format listed; using the automatic choice",
		KeyResolvingPlaylist:  "Resolving playlist...",
		KeyStarting:           "Starting download...",
		KeyCancelling:         "Cancelling...",
		KeyBridgeJob:          "Browser request",
		KeyFFmpegMissing:      "ffmpeg not found",
		KeyFFmpegMissingHint:  "ffmpeg was not found on PATH.\n\nWithout it only progressive formats (video and audio together) can be downloaded, and audio extraction is disabled.\n\nInstall ffmpeg for best compatibility.",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Video Downloader",
		KeyURL:                "URL:",
		KeyDestination:        "Destino:",
		KeyFormat:             "Formato:",
		KeyItems:              "Itens:",
		KeyListFormats:        "Listar formatos",
		KeyChoose:             "Escolher...",
		KeyAudioOnly:          "Somente áudio (mp3)",
		KeyPlaylist:           "Baixar playlist inteira",
		KeyThumbnail:          "Thumbnail",
		KeyPreferMP4:          "Preferir MP4 (compatível)",
		KeyDownload:           "Baixar",
		KeyCancel:             "Cancelar",
		KeyLog:                "Log",
		KeyReady:              "Pronto",
		KeyFile:               "Arquivo",
		KeySettings:           "Configurações",
		KeyOpenFolder:         "Abrir pasta de destino",
		KeyHelp:               "Ajuda",
		KeyAbout:              "Sobre",
		KeySave:               "Salvar",
		KeyBrowserIntegration: "Aceitar downloads da extensão do navegador",
		KeyAppliesOnRestart:   "A integração com o navegador muda na próxima inicialização.",
		KeySettingsSaved:      "Configurações salvas",
		KeyWarning:            "Aviso",
		KeyError:              "Erro",
		KeyPleaseEnterURL:     "Informe a URL",
		KeyInvalidURL:         "URL inválida",
		KeyChooseDestination:  "Escolha a pasta de destino",
		KeyInvalidDestination: "Diretório de destino inválido",
		KeyInvalidItems:       "Seleção de itens inválida",
		KeyListingFormats:     "Listando formatos...",
		KeyFormatsFound:       "%d formatos encontrados",
		KeyListFailed:         "Erro ao listar",
		KeyNoFormatListed:     "Nenhum formato listado; usando a escolha automática",
		KeyResolvingPlaylist:  "Resolvendo playlist...",
		KeyStarting:           "Iniciando download...",
		KeyCancelling:         "Cancelando...",
		KeyBridgeJob:          "Pedido do navegador",
		KeyFFmpegMissing:      "ffmpeg ausente",
		KeyFFmpegMissingHint:  "O ffmpeg não foi encontrado no PATH.\n\nSem ele só formatos progressivos (vídeo e áudio juntos) podem ser baixados e a extração de áudio fica desativada.\n\nPara melhor compatibilidade, instale o ffmpeg.",
	}
}
