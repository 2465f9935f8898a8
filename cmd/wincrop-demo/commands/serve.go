package commands

import (
	"bytes"
	"image"
	"net/http"
	"time"

	"github.com/mattn/go-mjpeg"
	"github.com/nfnt/resize"
	"github.com/pixiv/go-libjpeg/jpeg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirides/wincrop/capture"
	"github.com/kirides/wincrop/capture/graphicsgrab"
	"github.com/kirides/wincrop/capture/screengrab"
	"github.com/kirides/wincrop/capture/windowgrab"
	"github.com/kirides/wincrop/internal/config"
	"github.com/kirides/wincrop/internal/logger"
)

var (
	serveHandle   uint64
	serveMaxWidth uint
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream a window's cropped content as MJPEG",
	Long: `serve selects a window by handle (see "list") and streams its
content at /mjpeg, switching transparently between whole-screen and
per-window capture as the selected window is occluded, made
translucent, or goes full screen.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Uint64Var(&serveHandle, "window", 0, "window handle to capture, from 'list'")
	serveCmd.Flags().UintVar(&serveMaxWidth, "max-width", 0, "downscale frames wider than this, 0 disables")
	serveCmd.Flags().Bool("dxgi", false, "use DXGI Desktop Duplication instead of BitBlt for whole-screen capture")
	serveCmd.MarkFlagRequired("window")
	viper.BindPFlag("use_dxgi_screen_capture", serveCmd.Flags().Lookup("dxgi"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := logger.WithComponent("serve")

	inspector := capture.NewWin32Inspector()

	var screen capture.Backend = screengrab.New(inspector)
	var dxgi *graphicsgrab.Grab
	if cfg.UseDXGIScreenCapture {
		dxgi = graphicsgrab.New(inspector)
		screen = dxgi
		log.Info().Msg("using DXGI Desktop Duplication for whole-screen capture")
	}

	coord := capture.NewCroppingCoordinator(inspector, cfg.CaptureOptions(), screen, windowgrab.New(inspector))
	defer coord.Close()
	if dxgi != nil {
		defer dxgi.Close()
	}

	if err := coord.SelectSource(capture.WindowHandle(serveHandle)); err != nil {
		return err
	}

	stream := mjpeg.NewStreamWithInterval(time.Second / time.Duration(cfg.FPS))
	defer stream.Close()

	stop := make(chan struct{})
	go captureLoop(coord, stream, cfg, log, stop)
	defer close(stop)

	http.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<body style="margin:0"><img src="/mjpeg" style="max-width:100vw;max-height:100vh;object-fit:contain;display:block;margin:0 auto;"/></body>`))
	})
	http.HandleFunc("/mjpeg", stream.ServeHTTP)

	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	return http.ListenAndServe(cfg.ListenAddr, nil)
}

func captureLoop(coord *capture.CroppingCoordinator, stream *mjpeg.Stream, cfg config.Config, log *zerolog.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		frame, result, err := coord.CaptureFrame()
		if err != nil {
			log.Warn().Err(err).Str("result", result.String()).Msg("capture failed")
			continue
		}
		if frame.Width == 0 || frame.Height == 0 {
			continue
		}

		img := frameToImage(frame)
		var out image.Image = img
		if serveMaxWidth > 0 && uint(frame.Width) > serveMaxWidth {
			out = resize.Resize(serveMaxWidth, 0, img, resize.Bilinear)
		}

		buf, err := encodeJPEG(out, cfg.JPEGQuality)
		if err != nil {
			log.Warn().Err(err).Msg("jpeg encode failed")
			continue
		}
		stream.Update(buf)
	}
}

func frameToImage(frame capture.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		srcOff := y * frame.Stride
		dstOff := y * img.Stride
		copy(img.Pix[dstOff:dstOff+frame.Width*4], frame.Pixels[srcOff:srcOff+frame.Width*4])
	}
	return img
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.EncoderOptions{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
