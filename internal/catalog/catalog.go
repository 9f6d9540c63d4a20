// Package catalog holds the clinic's immutable reference tables: exam
// types, medical specialties and status labels. The catalog is built once
// at startup and injected where needed.
package catalog

// ExamType describes a bookable neurological exam.
type ExamType struct {
	Name        string  `json:"name"`
	Duration    int     `json:"duration"`
	Preparation string  `json:"preparation"`
	Price       float64 `json:"price"`
}

type Catalog struct {
	examTypes     map[string]ExamType
	specialties   map[string]string
	consultaLabel map[string]string
}

// Default returns the clinic's standard catalog.
func Default() *Catalog {
	return &Catalog{
		examTypes: map[string]ExamType{
			"eeg_rotina": {
				Name:        "EEG de Rotina",
				Duration:    30,
				Preparation: "Cabelo limpo e seco. Evitar cremes e óleos.",
				Price:       150.00,
			},
			"eeg_sono": {
				Name:        "EEG com Privação de Sono",
				Duration:    60,
				Preparation: "Dormir apenas 4 horas na noite anterior. Cabelo limpo.",
				Price:       250.00,
			},
			"eeg_mapeamento": {
				Name:        "EEG com Mapeamento Cerebral",
				Duration:    45,
				Preparation: "Cabelo limpo. Suspender medicações conforme orientação médica.",
				Price:       300.00,
			},
			"video_eeg": {
				Name:        "Video-EEG",
				Duration:    120,
				Preparation: "Jejum de 4 horas. Cabelo limpo. Trazer acompanhante.",
				Price:       500.00,
			},
			"eletroneuromiografia": {
				Name:        "Eletroneuromiografia",
				Duration:    60,
				Preparation: "Suspender anticoagulantes. Pele limpa e hidratada.",
				Price:       400.00,
			},
			"potencial_evocado": {
				Name:        "Potencial Evocado",
				Duration:    90,
				Preparation: "Cabelo limpo. Evitar cafeína 24h antes.",
				Price:       350.00,
			},
		},
		specialties: map[string]string{
			"neurologia":           "Neurologia",
			"neurofisiologia":      "Neurofisiologia Clínica",
			"epileptologia":        "Epileptologia",
			"neurologia_pediatrica": "Neurologia Pediátrica",
			"medicina_sono":        "Medicina do Sono",
		},
		consultaLabel: map[string]string{
			"agendado":       "Agendado",
			"confirmado":     "Confirmado",
			"em_preparo":     "Em Preparo",
			"em_andamento":   "Em Andamento",
			"concluido":      "Concluído",
			"laudo_pendente": "Laudo Pendente",
			"finalizado":     "Finalizado",
			"cancelado":      "Cancelado",
			"faltou":         "Paciente Faltou",
		},
	}
}

// ExamType looks up an exam type by its code.
func (c *Catalog) ExamType(code string) (ExamType, bool) {
	et, ok := c.examTypes[code]
	return et, ok
}

// ExamTypes returns a copy of the exam-type table.
func (c *Catalog) ExamTypes() map[string]ExamType {
	out := make(map[string]ExamType, len(c.examTypes))
	for k, v := range c.examTypes {
		out[k] = v
	}
	return out
}

// Specialties returns a copy of the specialty table.
func (c *Catalog) Specialties() map[string]string {
	out := make(map[string]string, len(c.specialties))
	for k, v := range c.specialties {
		out[k] = v
	}
	return out
}

// ConsultaStatusLabels returns a copy of the consultation status labels.
func (c *Catalog) ConsultaStatusLabels() map[string]string {
	out := make(map[string]string, len(c.consultaLabel))
	for k, v := range c.consultaLabel {
		out[k] = v
	}
	return out
}

// ValidConsultaStatus reports whether s is a known consultation status.
func (c *Catalog) ValidConsultaStatus(s string) bool {
	_, ok := c.consultaLabel[s]
	return ok
}
