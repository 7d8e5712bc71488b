package servicio_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"losimple/dto"
	"losimple/servicio"
)

func progresoDePrueba(t *testing.T) (*servicio.Servicio, *dto.Progreso, dto.Actor, dto.Actor) {
	t.Helper()
	mem, s := nuevoEntorno()
	ctx := context.Background()

	cliente := crearUsuario(t, mem, dto.RolCliente)
	equipo := crearUsuario(t, mem, dto.RolSimplificador)
	actorCliente := dto.Actor{ID: cliente.ID, Rol: dto.RolCliente}
	actorEquipo := dto.Actor{ID: equipo.ID, Rol: dto.RolSimplificador}

	solicitudLista(t, s, cliente.ID)
	sol, err := s.Iniciar(ctx, cliente.ID)
	if err != nil {
		t.Fatalf("iniciar: %v", err)
	}
	prog, err := s.ObtenerProgreso(ctx, sol.ID, actorEquipo)
	if err != nil {
		t.Fatalf("obtener progreso: %v", err)
	}
	return s, prog, actorCliente, actorEquipo
}

func punteroStr(s string) *string { return &s }

func punteroInt(n int) *int { return &n }

func TestActualizarProgresoAplicaParchesPorPipeline(t *testing.T) {
	s, prog, _, actorEquipo := progresoDePrueba(t)
	ctx := context.Background()

	actualizado, err := s.ActualizarProgreso(ctx, prog.ID, map[string]servicio.PipelineParche{
		dto.PipelineLogo: {
			Estado:     punteroStr(dto.PipelineEnProgreso),
			Avance:     punteroInt(40),
			PasoActual: punteroStr("Revisión de propuestas"),
		},
		dto.PipelineFirma: {SiguientePaso: punteroStr("Agendar cita de firma")},
	}, actorEquipo)
	if err != nil {
		t.Fatalf("actualizar: %v", err)
	}

	if actualizado.Logo.Estado != dto.PipelineEnProgreso || actualizado.Logo.Avance != 40 {
		t.Errorf("logo = %s/%d%%", actualizado.Logo.Estado, actualizado.Logo.Avance)
	}
	if actualizado.Logo.PasoActual != "Revisión de propuestas" {
		t.Errorf("logo.paso_actual = %q", actualizado.Logo.PasoActual)
	}
	if actualizado.Firma.SiguientePaso != "Agendar cita de firma" {
		t.Errorf("firma.siguiente_paso = %q", actualizado.Firma.SiguientePaso)
	}
	// Los campos no parchados quedan intactos.
	if actualizado.SitioWeb != prog.SitioWeb {
		t.Errorf("sitio_web cambió sin parche: %+v", actualizado.SitioWeb)
	}
}

// estado y avance se editan por separado; el panel admin los deja divergir
// a propósito y el núcleo no los corrige.
func TestActualizarProgresoPermiteDivergencia(t *testing.T) {
	s, prog, _, actorEquipo := progresoDePrueba(t)
	ctx := context.Background()

	actualizado, err := s.ActualizarProgreso(ctx, prog.ID, map[string]servicio.PipelineParche{
		dto.PipelineEmpresa: {
			Estado: punteroStr(dto.PipelineCompletado),
			Avance: punteroInt(40),
		},
	}, actorEquipo)
	if err != nil {
		t.Fatalf("actualizar: %v", err)
	}
	if actualizado.Empresa.Estado != dto.PipelineCompletado || actualizado.Empresa.Avance != 40 {
		t.Errorf("empresa = %s/%d%%, la divergencia debió conservarse",
			actualizado.Empresa.Estado, actualizado.Empresa.Avance)
	}
}

// Seis editores suben a la vez el avance de su propio pipeline; ningún
// parche debe sobrescribir lo que otro editor ya guardó.
func TestActualizarProgresoConcurrenteNoPierdeParches(t *testing.T) {
	s, prog, _, actorEquipo := progresoDePrueba(t)
	ctx := context.Background()

	pipelines := []string{
		dto.PipelineLogo, dto.PipelineSitioWeb, dto.PipelineRedesSociales,
		dto.PipelineEmpresa, dto.PipelineFacturacion, dto.PipelineFirma,
	}
	var wg sync.WaitGroup
	for _, nombre := range pipelines {
		nombre := nombre
		wg.Add(1)
		go func() {
			defer wg.Done()
			for avance := 2; avance <= 100; avance += 2 {
				avance := avance
				_, err := s.ActualizarProgreso(ctx, prog.ID, map[string]servicio.PipelineParche{
					nombre: {Avance: &avance},
				}, actorEquipo)
				if err != nil {
					t.Errorf("%s al %d%%: %v", nombre, avance, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	final, err := s.ObtenerProgreso(ctx, prog.SolicitudID, actorEquipo)
	if err != nil {
		t.Fatalf("obtener progreso: %v", err)
	}
	for _, nombre := range pipelines {
		if pl := final.PorNombre(nombre); pl.Avance != 100 {
			t.Errorf("%s terminó en %d%%, se perdió un parche concurrente", nombre, pl.Avance)
		}
	}
}

func TestActualizarProgresoValidaForma(t *testing.T) {
	s, prog, actorCliente, actorEquipo := progresoDePrueba(t)
	ctx := context.Background()

	casos := []struct {
		nombre  string
		parches map[string]servicio.PipelineParche
		actor   dto.Actor
		errEsp  error
	}{
		{"pipeline desconocido", map[string]servicio.PipelineParche{
			"contabilidad": {Avance: punteroInt(10)},
		}, actorEquipo, servicio.ErrValidacion},
		{"estado fuera del enum", map[string]servicio.PipelineParche{
			dto.PipelineLogo: {Estado: punteroStr("casi_listo")},
		}, actorEquipo, servicio.ErrValidacion},
		{"avance negativo", map[string]servicio.PipelineParche{
			dto.PipelineLogo: {Avance: punteroInt(-1)},
		}, actorEquipo, servicio.ErrValidacion},
		{"avance mayor a cien", map[string]servicio.PipelineParche{
			dto.PipelineLogo: {Avance: punteroInt(101)},
		}, actorEquipo, servicio.ErrValidacion},
		{"parche vacío", map[string]servicio.PipelineParche{}, actorEquipo, servicio.ErrValidacion},
		{"cliente editando", map[string]servicio.PipelineParche{
			dto.PipelineLogo: {Avance: punteroInt(10)},
		}, actorCliente, servicio.ErrProhibido},
	}
	for _, caso := range casos {
		if _, err := s.ActualizarProgreso(ctx, prog.ID, caso.parches, caso.actor); !errors.Is(err, caso.errEsp) {
			t.Errorf("%s: err = %v, esperaba %v", caso.nombre, err, caso.errEsp)
		}
	}
}

func TestObtenerProgresoAntesDeIniciar(t *testing.T) {
	mem, s := nuevoEntorno()
	ctx := context.Background()
	equipo := crearUsuario(t, mem, dto.RolSuperadmin)

	sol, err := s.GuardarPaso(ctx, "c1", 1, servicio.Respuestas{})
	if err != nil {
		t.Fatalf("guardar: %v", err)
	}
	if _, err := s.ObtenerProgreso(ctx, sol.ID, dto.Actor{ID: equipo.ID, Rol: equipo.Rol}); !errors.Is(err, servicio.ErrNoEncontrado) {
		t.Errorf("progreso sin iniciar: err = %v, esperaba ErrNoEncontrado", err)
	}
}

func TestObtenerProgresoSoloDuenoOEquipo(t *testing.T) {
	s, prog, actorCliente, _ := progresoDePrueba(t)
	ctx := context.Background()

	// El dueño sí lo ve.
	if _, err := s.ObtenerProgreso(ctx, prog.SolicitudID, actorCliente); err != nil {
		t.Errorf("dueño consultando: %v", err)
	}
	// Otro cliente no.
	if _, err := s.ObtenerProgreso(ctx, prog.SolicitudID, dto.Actor{ID: "ajeno", Rol: dto.RolCliente}); !errors.Is(err, servicio.ErrProhibido) {
		t.Errorf("cliente ajeno consultando: err = %v, esperaba ErrProhibido", err)
	}
}
