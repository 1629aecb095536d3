package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/pkg/jwt"
)

// JWTConfig parámetros de emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase autentica al operador configurado y emite el JWT que protege las
// rutas de mutación. La credencial vive en config (bcrypt), no en la BD.
type UseCase struct {
	adminUser string
	adminHash string
	jwtCfg    JWTConfig
}

// NewUseCase construye el caso de uso.
func NewUseCase(adminUser, adminPasswordHash string, jwtCfg JWTConfig) *UseCase {
	return &UseCase{adminUser: adminUser, adminHash: adminPasswordHash, jwtCfg: jwtCfg}
}

// Login valida usuario y contraseña contra la credencial configurada y
// devuelve un token firmado. Con hash vacío el login queda deshabilitado.
func (uc *UseCase) Login(user, password string) (string, error) {
	if uc.adminHash == "" || user != uc.adminUser {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.adminHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return jwt.Generate(uc.jwtCfg.Secret, user, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
