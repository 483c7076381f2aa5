package capture

// ShutdownWith runs the end-of-process path with r as the panic in flight.
func (s *Service) ShutdownWith(r any) { s.shutdown(r) }
