package sqlinline

const QSelectProfileRole = `--sql c14bd689-cf18-4cbf-b427-e199c5765308
select role
from profiles
where id = $1::uuid
limit 1;
`

const QUpsertProfileRole = `--sql 8d67d21a-76c3-4d37-9dba-7e6d8aefc6f1
insert into profiles (id, role, created_at)
values ($1::uuid, $2::text, now())
on conflict (id) do update set
    role = excluded.role;
`

const QListProfiles = `--sql 3b1b5bf5-e27b-452c-ad30-f03e1c9d5e8b
select id::text, role, coalesce(shop_name, ''), created_at
from profiles
order by created_at desc;
`
