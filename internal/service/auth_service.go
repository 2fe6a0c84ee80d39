package service

import (
	"context"
	"errors"
	"time"

	"saborpos/internal/config"
	"saborpos/internal/dto"
	"saborpos/internal/model"
	"saborpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrTokenInvalido         = errors.New("token invalido o expirado")
	ErrUsuarioNoEncontrado   = errors.New("usuario no encontrado")
	ErrUsernameDuplicado     = errors.New("ya existe un usuario con ese username")
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID string `json:"uid"`
	Rol    string `json:"rol"`
	Tipo   string `json:"tipo"` // access | refresh
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	ValidarAccessToken(tokenStr string) (*Claims, error)

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	usuarios repository.UsuarioRepository
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and bad password
		return nil, ErrCredencialesInvalidas
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrCredencialesInvalidas
	}
	log.Info().Str("usuario_id", u.ID.String()).Str("username", u.Username).Msg("login exitoso")
	return s.emitirTokens(u)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := s.validarToken(req.RefreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalido
	}
	u, err := s.usuarios.FindByID(ctx, uid)
	if err != nil || !u.Activo {
		return nil, ErrTokenInvalido
	}
	return s.emitirTokens(u)
}

func (s *authService) ValidarAccessToken(tokenStr string) (*Claims, error) {
	return s.validarToken(tokenStr, "access")
}

func (s *authService) validarToken(tokenStr, tipo string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalido
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalido
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Tipo != tipo {
		return nil, ErrTokenInvalido
	}
	return claims, nil
}

func (s *authService) emitirTokens(u *model.Usuario) (*dto.LoginResponse, error) {
	expAccess := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	access, err := s.firmar(u, "access", expAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.firmar(u, "refresh", time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(expAccess.Seconds()),
		User:         *toUsuarioResponse(u),
	}, nil
}

func (s *authService) firmar(u *model.Usuario, tipo string, vigencia time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID.String(),
		Rol:    u.Rol,
		Tipo:   tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(vigencia)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if existente, err := s.usuarios.FindByUsername(ctx, req.Username); err == nil && existente != nil && existente.ID != uuid.Nil {
		return nil, ErrUsernameDuplicado
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.usuarios.Create(ctx, u); err != nil {
		return nil, &PersistenciaError{Op: "crear usuario", Err: err}
	}
	log.Info().Str("usuario_id", u.ID.String()).Str("rol", u.Rol).Msg("usuario creado")
	return toUsuarioResponse(u), nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.usuarios.List(ctx, incluirInactivos)
	if err != nil {
		return nil, &PersistenciaError{Op: "listar usuarios", Err: err}
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, *toUsuarioResponse(&usuarios[i]))
	}
	return out, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUsuarioNoEncontrado
	}
	if req.Nombre != nil {
		u.Nombre = *req.Nombre
	}
	if req.Email != nil {
		u.Email = req.Email
	}
	if req.Rol != nil {
		u.Rol = *req.Rol
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := s.usuarios.Update(ctx, u); err != nil {
		return nil, &PersistenciaError{Op: "actualizar usuario", Err: err}
	}
	return toUsuarioResponse(u), nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.usuarios.FindByID(ctx, id); err != nil {
		return ErrUsuarioNoEncontrado
	}
	if err := s.usuarios.SoftDelete(ctx, id); err != nil {
		return &PersistenciaError{Op: "desactivar usuario", Err: err}
	}
	return nil
}

func toUsuarioResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}
