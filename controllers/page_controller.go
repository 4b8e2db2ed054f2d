// Package controllers file: controllers/page_controller.go
package controllers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"league-predictor/logger"
	"league-predictor/services"
)

var (
	ApplicationURL string
	WebsocketURL   string
	LogoPath       string
)

// qrEncoder is swapped out in tests.
var qrEncoder = services.QRCodeEncoder(qrcode.Encode)

const qrSize = 300

// SetConfig sets global application, WebSocket and logo settings
func SetConfig(appURL, wsURL, logoPath string) {
	ApplicationURL = appURL
	WebsocketURL = wsURL
	LogoPath = logoPath
	logger.Info.Printf("SetConfig: Global config updated: ApplicationURL=%s, WebsocketURL=%s, LogoPath=%s", appURL, wsURL, logoPath)
}

// Health answers load balancer checks.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// GetQRCode displays a QR code for the application URL
func GetQRCode(c *gin.Context) {
	logger.Info.Println("GetQRCode: Generating QR code")

	qrBytes, err := services.GenerateShareQRCode(ApplicationURL, qrSize, qrEncoder)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}

// Logo serves the decorative league logo. A missing file is not an error: the page
// hides the image when this returns 404.
func Logo(c *gin.Context) {
	if LogoPath == "" {
		logger.Debug.Println("Logo: no logo configured")
		c.Status(http.StatusNotFound)
		return
	}
	info, err := os.Stat(LogoPath)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn.Printf("Logo: cannot stat %s: %v", LogoPath, err)
		} else {
			logger.Debug.Printf("Logo: %s not found", LogoPath)
		}
		c.Status(http.StatusNotFound)
		return
	}
	c.File(LogoPath)
}
