package servicio_test

import (
	"context"
	"errors"
	"testing"

	"losimple/dto"
	"losimple/servicio"
)

func TestBitacoraSoloEquipo(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	cliente := crearUsuario(t, mem, dto.RolCliente)
	equipo := crearUsuario(t, mem, dto.RolSimplificador)
	actorCliente := dto.Actor{ID: cliente.ID, Rol: dto.RolCliente}
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSimplificador}

	sol, err := s.GuardarPaso(ctx, cliente.ID, 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}

	if _, err := s.RegistrarObservacion(ctx, sol.ID, "llamar al cliente", cliente.Nombre, actorCliente); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("cliente escribiendo en bitácora: err = %v, esperaba ErrProhibido", err)
	}
	if _, err := s.ListarAnticipos(ctx, sol.ID, actorCliente); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("cliente leyendo anticipos: err = %v, esperaba ErrProhibido", err)
	}

	if _, err := s.RegistrarObservacion(ctx, sol.ID, "Pendiente escritura pública", equipo.Nombre, actorEquipo); err != nil {
		t.Fatalf("registrar observación: %v", err)
	}
	observaciones, err := s.ListarObservaciones(ctx, sol.ID, actorEquipo)
	if err != nil {
		t.Fatalf("listar observaciones: %v", err)
	}
	if len(observaciones) != 1 || observaciones[0].Texto != "Pendiente escritura pública" {
		t.Errorf("observaciones = %+v", observaciones)
	}
}

func TestAnticiposSeAcumulan(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	equipo := crearUsuario(t, mem, dto.RolSuperadmin)
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSuperadmin}

	sol, err := s.GuardarPaso(ctx, "c1", 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}

	if _, err := s.RegistrarAnticipo(ctx, sol.ID, 0, "inválido", actorEquipo); !errors.Is(err, servicio.ErrValidacion) {
		t.Errorf("anticipo en cero: err = %v, esperaba ErrValidacion", err)
	}

	for _, monto := range []float64{200, 350.50} {
		if _, err := s.RegistrarAnticipo(ctx, sol.ID, monto, "abono", actorEquipo); err != nil {
			t.Fatalf("registrar anticipo de %.2f: %v", monto, err)
		}
	}
	anticipos, err := s.ListarAnticipos(ctx, sol.ID, actorEquipo)
	if err != nil {
		t.Fatalf("listar anticipos: %v", err)
	}
	if len(anticipos) != 2 {
		t.Fatalf("anticipos = %d, esperaba 2", len(anticipos))
	}
	if anticipos[0].Monto+anticipos[1].Monto != 550.50 {
		t.Errorf("suma de anticipos = %.2f", anticipos[0].Monto+anticipos[1].Monto)
	}
}

func TestBitacoraSolicitudInexistente(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()
	equipo := crearUsuario(t, mem, dto.RolSuperadmin)
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSuperadmin}

	if _, err := s.RegistrarAnticipo(ctx, "no-existe", 100, "abono", actorEquipo); !errors.Is(err, servicio.ErrNoEncontrado) {
		t.Errorf("anticipo sobre solicitud inexistente: err = %v, esperaba ErrNoEncontrado", err)
	}
}
