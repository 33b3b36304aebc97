package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/srgchrksv/ieltspodcaster/models"
	"github.com/srgchrksv/ieltspodcaster/services"
	"github.com/srgchrksv/ieltspodcaster/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "IELTS Speaking Generator API"})
}

func GenerateDialogue(c *gin.Context, services *services.Services) {
	var req models.DialogueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := services.GenerateDialogue(c.Request.Context(), req.Topic, req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewDialogueResponse(lines))
}

func TextToSpeech(c *gin.Context, services *services.Services) {
	var req models.TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := services.TextToSpeech(c.Request.Context(), req.Text, req.VoiceType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func GeneratePodcast(c *gin.Context, services *services.Services) {
	var req models.Dialogue
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := services.GeneratePodcast(c.Request.Context(), req.Dialogue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAudio serves a generated file by name.
func GetAudio(c *gin.Context, services *services.Services) {
	name := c.Param("audio_id")
	f, info, err := services.OpenAudio(name)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	contentType := "audio/wav"
	if strings.HasSuffix(name, ".mp3") {
		contentType = "audio/mpeg"
	}
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
}

// SpeechToText transcribes a recorded candidate answer.
func SpeechToText(c *gin.Context, services *services.Services) {
	audioFile, err := c.FormFile("audio_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audio file: " + err.Error()})
		return
	}
	f, err := audioFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error opening audio file: " + err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error reading audio file: " + err.Error()})
		return
	}

	text, err := services.Transcribe(c.Request.Context(), data, audioFile.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TranscriptResponse{Transcript: text})
}

// StreamPodcast upgrades to a websocket, reads one {"dialogue": [...]}
// message and streams the lines back with their audio.
func StreamPodcast(c *gin.Context, services *services.Services) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	_, message, err := conn.ReadMessage()
	if err != nil {
		log.Println("Read error:", err)
		return
	}

	var req models.Dialogue
	if err := sonic.Unmarshal(message, &req); err != nil {
		closeWith(conn, websocket.CloseUnsupportedData, "invalid dialogue: "+err.Error())
		return
	}

	if err := services.StreamPodcast(c.Request.Context(), conn, req.Dialogue); err != nil {
		closeWith(conn, websocket.CloseInternalServerErr, err.Error())
		return
	}
	closeWith(conn, websocket.CloseNormalClosure, "podcast finished")
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	// control frame payloads are limited to 125 bytes
	if len(reason) > 123 {
		reason = reason[:123]
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrModelUnavailable),
		errors.Is(err, services.ErrSynthesizerUnavailable),
		errors.Is(err, services.ErrTranscriberUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrNoSegments):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
