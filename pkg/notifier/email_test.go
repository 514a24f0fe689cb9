package notifier

import (
	"context"
	"mime"
	"strings"
	"testing"

	"omylab/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMessage_EncodesSubject(t *testing.T) {
	msg := string(buildMessage("lab@omylab.pe", "lmorales@omylab.pe", "Código de Verificación OMYLAB", "<p>123456</p>"))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, "<p>123456</p>", body)

	var subject string
	for _, line := range strings.Split(headers, "\r\n") {
		if v, ok := strings.CutPrefix(line, "Subject: "); ok {
			subject = v
		}
	}
	require.NotEmpty(t, subject)
	assert.True(t, strings.HasPrefix(subject, "=?utf-8?q?"))
	assert.NotContains(t, subject, "ó")

	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Código de Verificación OMYLAB", decoded)
}

func TestBuildMessage_ASCIISubjectUnchanged(t *testing.T) {
	msg := string(buildMessage("a@b.pe", "c@d.pe", "OMYLAB", "x"))
	assert.Contains(t, msg, "Subject: OMYLAB\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=\"utf-8\"\r\n")
}

func TestNew_PicksSender(t *testing.T) {
	assert.IsType(t, &LogSender{}, New(utils.EmailConfig{}, zap.NewNop()))
	assert.IsType(t, &SMTPSender{}, New(utils.EmailConfig{Host: "smtp.omylab.pe", Port: 465}, zap.NewNop()))
	assert.NoError(t, NewLogSender(zap.NewNop()).Send(context.Background(), "a@b.pe", "s", "b"))
}
