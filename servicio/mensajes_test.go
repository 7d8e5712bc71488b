package servicio_test

import (
	"context"
	"errors"
	"testing"

	"losimple/dto"
	"losimple/servicio"
)

func TestPublicarMensajeSoloEquipo(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	cliente := crearUsuario(t, mem, dto.RolCliente)
	simplificador := crearUsuario(t, mem, dto.RolSimplificador)

	sol, err := s.GuardarPaso(ctx, cliente.ID, 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}

	if _, err := s.PublicarMensaje(ctx, sol.ID, "hola", cliente.Nombre, dto.Actor{ID: cliente.ID, Rol: dto.RolCliente}); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("cliente publicando: err = %v, esperaba ErrProhibido", err)
	}

	m, err := s.PublicarMensaje(ctx, sol.ID, "Bienvenido a Lo Simple", simplificador.Nombre, dto.Actor{ID: simplificador.ID, Rol: dto.RolSimplificador})
	if err != nil {
		t.Fatalf("publicar: %v", err)
	}
	if m.Resuelto || m.RespuestaCliente != nil {
		t.Errorf("mensaje nuevo nació resuelto o con respuesta: %+v", m)
	}
	if m.RolEmisor != dto.RolSimplificador {
		t.Errorf("rol_emisor = %q", m.RolEmisor)
	}
}

func TestResponderMensajeSoloElDuenoYUnaVez(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	dueno := crearUsuario(t, mem, dto.RolCliente)
	intruso := crearUsuario(t, mem, dto.RolCliente)
	equipo := crearUsuario(t, mem, dto.RolSimplificador)
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSimplificador}

	sol, err := s.GuardarPaso(ctx, dueno.ID, 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}
	m, err := s.PublicarMensaje(ctx, sol.ID, "¿Nombre definitivo de la empresa?", equipo.Nombre, actorEquipo)
	if err != nil {
		t.Fatalf("publicar: %v", err)
	}

	// Ni otro cliente ni el propio equipo pueden responder.
	if _, err := s.ResponderMensaje(ctx, m.ID, "soy otro", dto.Actor{ID: intruso.ID, Rol: dto.RolCliente}); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("otro cliente respondiendo: err = %v, esperaba ErrProhibido", err)
	}
	if _, err := s.ResponderMensaje(ctx, m.ID, "soy del equipo", actorEquipo); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("equipo respondiendo: err = %v, esperaba ErrProhibido", err)
	}

	actorDueno := dto.Actor{ID: dueno.ID, Rol: dto.RolCliente}
	respondido, err := s.ResponderMensaje(ctx, m.ID, "Mi Empresa SAS", actorDueno)
	if err != nil {
		t.Fatalf("responder: %v", err)
	}
	if respondido.RespuestaCliente == nil || *respondido.RespuestaCliente != "Mi Empresa SAS" {
		t.Errorf("respuesta_cliente = %v", respondido.RespuestaCliente)
	}

	// La segunda respuesta no sobrescribe: falla.
	if _, err := s.ResponderMensaje(ctx, m.ID, "cambio de idea", actorDueno); !errors.Is(err, servicio.ErrPrecondicion) {
		t.Errorf("segunda respuesta: err = %v, esperaba ErrPrecondicion", err)
	}
	tras, err := s.ListarMensajes(ctx, sol.ID, actorDueno)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if *tras[0].RespuestaCliente != "Mi Empresa SAS" {
		t.Errorf("la respuesta original fue sobrescrita: %q", *tras[0].RespuestaCliente)
	}
}

func TestResolverMensajeAmbosLados(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	dueno := crearUsuario(t, mem, dto.RolCliente)
	intruso := crearUsuario(t, mem, dto.RolCliente)
	equipo := crearUsuario(t, mem, dto.RolSimplificador)
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSimplificador}
	actorDueno := dto.Actor{ID: dueno.ID, Rol: dto.RolCliente}

	sol, _ := s.GuardarPaso(ctx, dueno.ID, 1, servicio.Respuestas{})
	m, err := s.PublicarMensaje(ctx, sol.ID, "Firme el documento adjunto", equipo.Nombre, actorEquipo)
	if err != nil {
		t.Fatalf("publicar: %v", err)
	}

	// El dueño marca resuelto; el equipo lo reabre; ambos valen.
	res, err := s.ResolverMensaje(ctx, m.ID, true, actorDueno)
	if err != nil || !res.Resuelto {
		t.Fatalf("dueño resolviendo: %v", err)
	}
	res, err = s.ResolverMensaje(ctx, m.ID, false, actorEquipo)
	if err != nil || res.Resuelto {
		t.Fatalf("equipo reabriendo: %v", err)
	}

	// Un cliente ajeno no puede tocarlo.
	if _, err := s.ResolverMensaje(ctx, m.ID, true, dto.Actor{ID: intruso.ID, Rol: dto.RolCliente}); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("cliente ajeno resolviendo: err = %v, esperaba ErrProhibido", err)
	}
}

func TestListarMensajesEnOrdenDeCreacion(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()

	dueno := crearUsuario(t, mem, dto.RolCliente)
	equipo := crearUsuario(t, mem, dto.RolSimplificador)
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSimplificador}

	sol, _ := s.GuardarPaso(ctx, dueno.ID, 1, servicio.Respuestas{})
	textos := []string{"primero", "segundo", "tercero"}
	for _, texto := range textos {
		if _, err := s.PublicarMensaje(ctx, sol.ID, texto, equipo.Nombre, actorEquipo); err != nil {
			t.Fatalf("publicar %q: %v", texto, err)
		}
	}

	hilo, err := s.ListarMensajes(ctx, sol.ID, actorEquipo)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(hilo) != len(textos) {
		t.Fatalf("hilo con %d mensajes, esperaba %d", len(hilo), len(textos))
	}
	for i, texto := range textos {
		if hilo[i].Mensaje != texto {
			t.Errorf("posición %d: %q, esperaba %q", i, hilo[i].Mensaje, texto)
		}
	}
}
