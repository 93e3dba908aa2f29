// Package signature firma y verifica cuerpos de webhook con HMAC-SHA256 en hex.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var (
	// ErrMissing falta la firma o el secreto compartido.
	ErrMissing = errors.New("signature: firma o secreto ausente")
	// ErrMismatch la firma no corresponde al cuerpo.
	ErrMismatch = errors.New("signature: firma no coincide")
)

// Sign devuelve el HMAC-SHA256 de body con secret, codificado en hex minúsculas.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compara la firma recibida contra la esperada para los bytes exactos del cuerpo.
// Primero se comprueba la longitud; luego la comparación recorre todos los bytes
// acumulando XOR, de modo que el tiempo no depende de la posición de la diferencia.
func Verify(secret string, body []byte, received string) error {
	if secret == "" || received == "" {
		return ErrMissing
	}
	expected := Sign(secret, body)
	if len(received) != len(expected) {
		return ErrMismatch
	}
	if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
		return ErrMismatch
	}
	return nil
}
