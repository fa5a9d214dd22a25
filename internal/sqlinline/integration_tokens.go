package sqlinline

// Provider API keys managed from tailorctl. One row per provider.

const QSelectIntegrationToken = `--sql 3f1c9b7e-52a4-4d0e-9c61-0b8e7a2d4f15
select btrim(token)
from integration_tokens
where provider = $1::text;
`

const QUpsertIntegrationToken = `--sql c47e2a90-18d3-4b6f-a5e2-7d9f0c3b8e61
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update
set token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`
