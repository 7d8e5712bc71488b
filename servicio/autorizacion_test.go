package servicio_test

import (
	"context"
	"errors"
	"testing"

	"losimple/dto"
	"losimple/servicio"
)

func TestAutorizarAsignacion(t *testing.T) {
	otro := "otro-id"
	yo := "mi-id"

	casos := []struct {
		nombre    string
		rol       string
		asignadaA *string
		permitido bool
	}{
		{"superadmin asigna a cualquiera", dto.RolSuperadmin, &otro, true},
		{"superadmin desasigna", dto.RolSuperadmin, nil, true},
		{"simplificador se reclama a sí mismo", dto.RolSimplificador, &yo, true},
		{"simplificador asigna a otro", dto.RolSimplificador, &otro, false},
		{"simplificador desasigna", dto.RolSimplificador, nil, false},
		{"cliente asigna", dto.RolCliente, &yo, false},
	}
	for _, caso := range casos {
		actor := dto.Actor{ID: yo, Rol: caso.rol}
		resultado := servicio.Autorizar(actor, servicio.AccionAsignar, servicio.Recurso{AsignadaA: caso.asignadaA})
		if resultado != caso.permitido {
			t.Errorf("%s: Autorizar = %v, esperaba %v", caso.nombre, resultado, caso.permitido)
		}
	}
}

func TestAlcanceListadoPorRol(t *testing.T) {
	casos := []struct {
		rol     string
		alcance servicio.Alcance
	}{
		{dto.RolSuperadmin, servicio.AlcanceTodas},
		{dto.RolSimplificador, servicio.AlcanceAsignadas},
		{dto.RolCliente, servicio.AlcanceNinguno},
		{"desconocido", servicio.AlcanceNinguno},
	}
	for _, caso := range casos {
		actor := dto.Actor{ID: "quien-sea", Rol: caso.rol}
		if alcance := servicio.AlcanceListado(actor); alcance != caso.alcance {
			t.Errorf("%s: AlcanceListado = %v, esperaba %v", caso.rol, alcance, caso.alcance)
		}
	}
}

func TestAsignarRespetaRoles(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	u1 := crearUsuario(t, mem, dto.RolSimplificador)
	u2 := crearUsuario(t, mem, dto.RolSimplificador)
	admin := crearUsuario(t, mem, dto.RolSuperadmin)

	sol, err := s.GuardarPaso(ctx, "c1", 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}

	// Un simplificador no puede asignar a otro.
	actorU1 := dto.Actor{ID: u1.ID, Rol: dto.RolSimplificador}
	if _, err := s.Asignar(ctx, sol.ID, &u2.ID, actorU1); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("simplificador asignando a otro: err = %v, esperaba ErrProhibido", err)
	}

	// La misma llamada hecha por un superadmin funciona.
	actorAdmin := dto.Actor{ID: admin.ID, Rol: dto.RolSuperadmin}
	asignada, err := s.Asignar(ctx, sol.ID, &u2.ID, actorAdmin)
	if err != nil {
		t.Fatalf("superadmin asignando: %v", err)
	}
	if asignada.AsignadaA == nil || *asignada.AsignadaA != u2.ID {
		t.Errorf("asignada_a = %v, esperaba %s", asignada.AsignadaA, u2.ID)
	}

	// El simplificador sí puede reclamarla para sí mismo.
	if _, err := s.Asignar(ctx, sol.ID, &u1.ID, actorU1); err != nil {
		t.Errorf("reclamo propio: %v", err)
	}

	// Y no puede limpiar la asignación de nadie.
	if _, err := s.Asignar(ctx, sol.ID, nil, actorU1); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("simplificador desasignando: err = %v, esperaba ErrProhibido", err)
	}
}

func TestAsignarExigeDestinatarioDelEquipo(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	cliente := crearUsuario(t, mem, dto.RolCliente)
	admin := crearUsuario(t, mem, dto.RolSuperadmin)
	actorAdmin := dto.Actor{ID: admin.ID, Rol: dto.RolSuperadmin}

	sol, err := s.GuardarPaso(ctx, "c1", 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}

	if _, err := s.Asignar(ctx, sol.ID, &cliente.ID, actorAdmin); !errors.Is(err, servicio.ErrValidacion) {
		t.Errorf("asignar a un cliente: err = %v, esperaba ErrValidacion", err)
	}

	inexistente := "no-existe"
	if _, err := s.Asignar(ctx, sol.ID, &inexistente, actorAdmin); !errors.Is(err, servicio.ErrNoEncontrado) {
		t.Errorf("asignar a usuario inexistente: err = %v, esperaba ErrNoEncontrado", err)
	}
}
